package recorder

import (
	"context"
	"errors"
	"time"

	"FuturesSentinel/internal/model"
)

// ErrNotFound is returned by LoadBars when nothing is archived for the key.
var ErrNotFound = errors.New("no archived bars")

// RunRecord summarizes one analysis run.
type RunRecord struct {
	RunID   string
	Symbol  string
	Started time.Time
	Elapsed time.Duration
	Err     string
	Periods int
}

// Recorder archives fetched bars and keeps an audit row per analysis run.
type Recorder interface {
	// SaveBars upserts bars keyed by symbol, period and timestamp.
	SaveBars(ctx context.Context, s model.PriceSeries) error
	// LoadBars returns up to limit of the most recent archived bars in
	// ascending time order.
	LoadBars(ctx context.Context, symbol string, period model.Period, limit int) (model.PriceSeries, error)
	RecordRun(ctx context.Context, run RunRecord) error
	Close() error
}
