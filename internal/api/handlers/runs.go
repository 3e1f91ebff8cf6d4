package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fincast/asx-screener/internal/report"
	"github.com/fincast/asx-screener/pkg/logger"
)

// RunsHandler serves completed screening runs from the outputs
// directory.
type RunsHandler struct {
	outDir string
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler rooted at the base outputs
// directory.
func NewRunsHandler(outDir string, log *logger.Logger) *RunsHandler {
	return &RunsHandler{outDir: outDir, logger: log}
}

// List returns all run ids, newest first.
// GET /api/runs
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	runs, err := report.ListRuns(h.outDir)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// Latest returns the metadata of the most recent run.
// GET /api/runs/latest
func (h *RunsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	runs, err := report.ListRuns(h.outDir)
	if err != nil || len(runs) == 0 {
		respondError(w, http.StatusNotFound, "No runs available")
		return
	}

	h.serveMetadata(w, runs[0])
}

// Metadata returns one run's metadata.
// GET /api/runs/{id}/metadata
func (h *RunsHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	id, ok := h.runID(w, r)
	if !ok {
		return
	}
	h.serveMetadata(w, id)
}

// Tickers returns the deduplicated ticker list of one run.
// GET /api/runs/{id}/tickers
func (h *RunsHandler) Tickers(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, report.TickersFile)
}

// Selections returns the combined long selection table of one run.
// GET /api/runs/{id}/selections
func (h *RunsHandler) Selections(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, report.LongFile)
}

// IndustryPivot returns one run's per-industry metric aggregates.
// GET /api/runs/{id}/industry-pivot
func (h *RunsHandler) IndustryPivot(w http.ResponseWriter, r *http.Request) {
	h.serveCSV(w, r, report.IndustryPivotFile)
}

func (h *RunsHandler) serveMetadata(w http.ResponseWriter, id string) {
	meta, err := report.ReadRunMetadata(filepath.Join(h.outDir, "runs", id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Run not found")
		return
	}
	respondJSON(w, http.StatusOK, meta)
}

// serveCSV converts one of the run's CSV outputs to JSON rows.
func (h *RunsHandler) serveCSV(w http.ResponseWriter, r *http.Request, file string) {
	id, ok := h.runID(w, r)
	if !ok {
		return
	}

	path := filepath.Join(h.outDir, "runs", id, file)
	f, err := os.Open(path)
	if err != nil {
		respondError(w, http.StatusNotFound, "Run output not found")
		return
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		h.logger.WithError(err).WithField("path", path).Error("Failed to read run output")
		respondError(w, http.StatusInternalServerError, "Failed to read run output")
		return
	}

	rows := make([]map[string]string, 0)
	if len(records) > 1 {
		header := records[0]
		for _, record := range records[1:] {
			row := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(record) {
					row[col] = record[i]
				}
			}
			rows = append(rows, row)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": id,
		"rows":   rows,
		"count":  len(rows),
	})
}

// runID extracts and checks the run id path variable.
func (h *RunsHandler) runID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		respondError(w, http.StatusBadRequest, "Invalid run id")
		return "", false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
