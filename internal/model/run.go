package model

import "time"

// RunStatus represents the current state of a scrape run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one invocation of the scrape-and-combine pipeline.
type Run struct {
	ID        string     `json:"id"`
	Years     []int      `json:"years"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a completed run.
type RunResult struct {
	Records      int    `json:"records"`
	Seasons      []int  `json:"seasons"`
	SkippedYears []int  `json:"skipped_years,omitempty"`
	CombinedFile string `json:"combined_file,omitempty"`
}
