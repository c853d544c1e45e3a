package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"FuturesSentinel/internal/cache"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/metrics"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/recorder"
)

// Collector fetches bar series through a cache, archiving fresh bars and
// falling back to the archive when the source fails.
type Collector struct {
	Fetcher  Fetcher
	Cache    cache.Store
	Recorder recorder.Recorder
}

// NewCollector creates a Collector. store may be nil to disable caching and
// rec may be nil to disable archiving.
func NewCollector(fetcher Fetcher, store cache.Store, rec recorder.Recorder) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{Fetcher: fetcher, Cache: store, Recorder: rec}
}

// Collect returns one series.
func (c *Collector) Collect(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	log := logger.Get().With("symbol", symbol, "period", period)
	key := cache.Key("bars", map[string]any{"symbol": symbol, "period": period, "days": days})

	if c.Cache != nil {
		s, ok, err := cache.GetJSON[model.PriceSeries](ctx, c.Cache, key)
		switch {
		case err != nil:
			metrics.RecordCache("error")
			log.Warnw("cache lookup failed", "error", err)
		case ok:
			metrics.RecordCache("hit")
			return s, nil
		default:
			metrics.RecordCache("miss")
		}
	}

	source := c.Fetcher.Name()
	s, err := c.Fetcher.FetchBars(ctx, symbol, period, days)
	if err == nil && s.Len() == 0 {
		err = ErrNoData
	}
	if err != nil {
		var mfe *model.MissingFieldError
		if errors.As(err, &mfe) || ctx.Err() != nil {
			metrics.RecordFetch(source, string(period), "error")
			return s, err
		}
		if errors.Is(err, ErrNoData) {
			metrics.RecordFetch(source, string(period), "empty")
		} else {
			metrics.RecordFetch(source, string(period), "error")
		}

		archived, aerr := c.Recorder.LoadBars(ctx, symbol, period, BarLimit(period, days))
		if aerr != nil {
			return s, fmt.Errorf("fetch %s %s: %w", symbol, period, err)
		}
		metrics.RecordFetch(source, string(period), "archive")
		log.Warnw("source failed, using archived bars", "error", err, "bars", archived.Len())
		return archived, nil
	}

	metrics.RecordFetch(source, string(period), "success")
	log.Infow("fetched bars", "source", source, "bars", s.Len())

	// The archive has no column mask, so only complete series go there.
	if s.Missing == 0 {
		if err := c.Recorder.SaveBars(ctx, s); err != nil {
			log.Warnw("archive bars failed", "error", err)
		}
	}
	if c.Cache != nil {
		if err := cache.SetJSON(ctx, c.Cache, key, s); err != nil {
			log.Warnw("cache store failed", "error", err)
		}
	}
	return s, nil
}

// CollectMulti fetches every period concurrently. Periods that fail are
// logged and left out of the result.
func (c *Collector) CollectMulti(ctx context.Context, symbol string, periods []model.Period, days int) map[model.Period]model.PriceSeries {
	var mu sync.Mutex
	out := make(map[model.Period]model.PriceSeries, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range periods {
		g.Go(func() error {
			s, err := c.Collect(gctx, symbol, p, days)
			if err != nil {
				logger.Get().Warnw("period skipped", "symbol", symbol, "period", p, "error", err)
				return nil
			}
			mu.Lock()
			out[p] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
