package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job.
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression
	// Examples: "0 0 18 * * 1-5" (weekdays at 6 PM)
	//           "@daily", "@hourly"
	Schedule() string
}

// FuncJob adapts a plain function into a Job.
type FuncJob struct {
	JobName  string
	CronExpr string
	RunFunc  func(ctx context.Context) error
}

// Name returns the job name.
func (j *FuncJob) Name() string { return j.JobName }

// Run executes the job function.
func (j *FuncJob) Run(ctx context.Context) error { return j.RunFunc(ctx) }

// Schedule returns the cron expression.
func (j *FuncJob) Schedule() string { return j.CronExpr }

// JobResult represents the result of a job execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores job execution history.
type JobHistory struct {
	Results []JobResult
}

// AddResult adds a job result to history.
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)

	// Keep only last 100 results
	if len(h.Results) > 100 {
		h.Results = h.Results[len(h.Results)-100:]
	}
}

// GetLatestResults returns the latest N results.
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}

	if n == 0 {
		return []JobResult{}
	}

	return h.Results[len(h.Results)-n:]
}
