// Package store persists scrape runs, archived season records, and the
// fetched-page cache.
package store

import (
	"context"
	"time"

	"github.com/sells-group/qbstats/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the scrape pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, years []int) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Archived records, in combined-dataset order.
	SaveRecords(ctx context.Context, runID string, records []model.QuarterbackSeasonRecord) (int64, error)
	ListRecords(ctx context.Context, runID string) ([]model.QuarterbackSeasonRecord, error)

	// Page cache
	GetCachedPage(ctx context.Context, url string, maxAge time.Duration) ([]byte, bool, error)
	SetCachedPage(ctx context.Context, url string, body []byte) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
