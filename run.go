package webtab

import (
	"context"
	"time"
)

// History is a caller-owned record of batch runs within one session.
// The pipeline appends to it but never reads from it.
type History struct {
	Runs []*Run
}

// Add appends a run to the history.
func (h *History) Add(run *Run) {
	h.Runs = append(h.Runs, run)
}

// Run records one processed batch.
type Run struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	URLs      []string  `json:"urls"`
	OK        int       `json:"ok"`
	Empty     int       `json:"empty"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRun summarizes batch results into a Run. ID and CreatedAt are
// assigned by the RunService.
func NewRun(file string, results []*Result) *Run {
	run := &Run{File: file, URLs: make([]string, 0, len(results))}
	for _, r := range results {
		run.URLs = append(run.URLs, r.Request.URL)
		switch r.Status() {
		case StatusOK:
			run.OK++
		case StatusEmpty:
			run.Empty++
		case StatusFailed:
			run.Failed++
		}
	}
	return run
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.File == "" {
		return Errorf(EINVALID, "run file required")
	}
	if len(r.URLs) == 0 {
		return Errorf(EINVALID, "run URLs required")
	}
	return nil
}

// RunService persists the history of batch runs.
type RunService interface {
	// CreateRun records a run, assigning its ID and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns returns runs newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
