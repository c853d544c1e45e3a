package recorder

import (
	"context"

	"FuturesSentinel/internal/model"
)

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (NoopRecorder) SaveBars(context.Context, model.PriceSeries) error { return nil }
func (NoopRecorder) RecordRun(context.Context, RunRecord) error        { return nil }
func (NoopRecorder) Close() error                                      { return nil }

func (NoopRecorder) LoadBars(context.Context, string, model.Period, int) (model.PriceSeries, error) {
	return model.PriceSeries{}, ErrNotFound
}
