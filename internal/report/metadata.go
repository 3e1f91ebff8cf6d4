package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Environment describes where a run executed.
type Environment struct {
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Hostname  string `json:"hostname"`
	User      string `json:"user"`
}

// Counts summarizes a run's volume.
type Counts struct {
	TickersLoaded int `json:"tickers_loaded"`
	SelectedRows  int `json:"selected_rows"`
}

// RunError captures the failure of a run for the metadata file.
type RunError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RunMetadata is written as run_metadata.json into every run
// directory, on success and on failure alike.
type RunMetadata struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"` // running, success, error
	StartUTC   string `json:"start_utc"`
	StartLocal string `json:"start_local"`
	EndUTC     string `json:"end_utc,omitempty"`
	Duration   float64 `json:"duration_seconds"`

	BaseOutDir string `json:"base_out_dir"`
	RunDir     string `json:"run_dir"`

	Environment Environment `json:"environment"`

	ConfigHash string      `json:"config_hash,omitempty"`
	Config     interface{} `json:"config,omitempty"`

	Counts      Counts    `json:"counts"`
	OutputFiles []string  `json:"output_files"`
	Error       *RunError `json:"error,omitempty"`

	started time.Time
}

// NewRunMetadata initializes metadata for a run that just started.
func NewRunMetadata(runID, baseOutDir, runDir string) *RunMetadata {
	now := time.Now()
	hostname, _ := os.Hostname()

	return &RunMetadata{
		RunID:      runID,
		Status:     "running",
		StartUTC:   now.UTC().Format(time.RFC3339),
		StartLocal: now.Format(time.RFC3339),
		BaseOutDir: baseOutDir,
		RunDir:     runDir,
		Environment: Environment{
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Hostname:  hostname,
			User:      os.Getenv("USER"),
		},
		OutputFiles: []string{},
		started:     now,
	}
}

// AddOutputFile records a file produced by the run.
func (m *RunMetadata) AddOutputFile(path string) {
	m.OutputFiles = append(m.OutputFiles, path)
}

// Finish closes the metadata with a final status. A non-nil err marks
// the run as failed.
func (m *RunMetadata) Finish(err error) {
	now := time.Now()
	m.EndUTC = now.UTC().Format(time.RFC3339)
	m.Duration = now.Sub(m.started).Seconds()

	if err != nil {
		m.Status = "error"
		m.Error = &RunError{
			Type:    fmt.Sprintf("%T", err),
			Message: err.Error(),
		}
	} else {
		m.Status = "success"
	}
}

// WriteRunMetadata persists metadata into the run directory.
func WriteRunMetadata(runDir string, m *RunMetadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}

	path := filepath.Join(runDir, MetadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run metadata: %w", err)
	}
	return nil
}

// ReadRunMetadata loads a run's metadata file, if present.
func ReadRunMetadata(runDir string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(runDir, MetadataFile))
	if err != nil {
		return nil, err
	}

	var m RunMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse run metadata: %w", err)
	}
	return &m, nil
}

// ListRuns returns the run ids under <root>/runs, newest first.
func ListRuns(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, "runs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			runs = append(runs, e.Name())
		}
	}

	// Run ids start with a sortable timestamp.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}
