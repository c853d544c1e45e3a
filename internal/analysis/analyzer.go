// Package analysis runs the per-symbol pipeline: collect bars for every
// period, annotate indicators, classify trends, recognize recent patterns and
// locate support/resistance on the daily series.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"FuturesSentinel/internal/calculator"
	"FuturesSentinel/internal/collector"
	"FuturesSentinel/internal/levels"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/metrics"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/pattern"
	"FuturesSentinel/internal/recorder"
	"FuturesSentinel/internal/trend"
)

// ErrDataFetch is returned when no period could be collected.
var ErrDataFetch = errors.New("data fetch failed")

// Options tune one Analyzer.
type Options struct {
	Periods        []model.Period
	Days           int
	RSIStyle       model.RSIStyle
	RecentPatterns int
	// Concurrency bounds RunBatch; values below 1 mean one symbol at a time.
	Concurrency int
}

// DefaultOptions mirrors the command-line defaults.
func DefaultOptions() Options {
	return Options{
		Periods:        model.DefaultPeriods,
		Days:           30,
		RSIStyle:       model.RSIStyleInternational,
		RecentPatterns: 10,
		Concurrency:    3,
	}
}

// Analyzer ties the collector to the pure analysis packages.
type Analyzer struct {
	Collector  *collector.Collector
	Recognizer *pattern.Recognizer
	Levels     *levels.Analyzer
	Recorder   recorder.Recorder
	Options    Options
}

// NewAnalyzer creates an Analyzer with default recognizer and level
// settings. rec may be nil.
func NewAnalyzer(col *collector.Collector, rec recorder.Recorder, opts Options) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if len(opts.Periods) == 0 {
		opts.Periods = model.DefaultPeriods
	}
	if opts.Days <= 0 {
		opts.Days = 30
	}
	return &Analyzer{
		Collector:  col,
		Recognizer: pattern.NewRecognizer(),
		Levels:     levels.NewAnalyzer(),
		Recorder:   rec,
		Options:    opts,
	}
}

type periodResult struct {
	frame    model.IndicatorFrame
	verdict  model.TrendVerdict
	patterns []model.PatternMatch
}

// Analyze runs the full pipeline for one symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (rep *Report, err error) {
	start := time.Now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	runID := uuid.NewString()
	log := logger.Get().With("symbol", symbol, "run_id", runID)

	defer func() {
		metrics.ObserveAnalysis(start, err)
		run := recorder.RunRecord{RunID: runID, Symbol: symbol, Started: start, Elapsed: time.Since(start)}
		if err != nil {
			run.Err = err.Error()
		} else {
			run.Periods = len(rep.Trends)
		}
		if rerr := a.Recorder.RecordRun(context.WithoutCancel(ctx), run); rerr != nil {
			log.Warnw("record run failed", "error", rerr)
		}
	}()

	log.Infow("analysis started", "periods", a.Options.Periods)
	series := a.Collector.CollectMulti(ctx, symbol, a.Options.Periods, a.Options.Days)
	if len(series) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", symbol, ErrDataFetch)
	}

	var mu sync.Mutex
	results := make(map[model.Period]periodResult, len(series))
	var g errgroup.Group
	for p, s := range series {
		g.Go(func() error {
			frame, err := calculator.AddAllIndicators(s, a.Options.RSIStyle)
			if err != nil {
				return fmt.Errorf("indicators %s: %w", p, err)
			}
			res := periodResult{
				frame:    frame,
				verdict:  trend.Analyze(frame, p.Label()),
				patterns: a.Recognizer.Recent(s, a.Options.RecentPatterns),
			}
			for _, m := range res.patterns {
				metrics.RecordPattern(string(m.Signal))
			}
			mu.Lock()
			results[p] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep = &Report{
		RunID:       runID,
		Symbol:      symbol,
		Name:        collector.DisplayName(symbol),
		Started:     start,
		Frames:      make(map[model.Period]model.IndicatorFrame, len(results)),
		Patterns:    make(map[model.Period][]model.PatternMatch, len(results)),
		DataSummary: make(map[model.Period]DataSummary, len(results)),
		Signals:     map[string]string{},
	}
	for _, p := range a.Options.Periods {
		res, ok := results[p]
		if !ok {
			continue
		}
		s := series[p]
		rep.Frames[p] = res.frame
		rep.Trends = append(rep.Trends, res.verdict)
		rep.Patterns[p] = res.patterns
		rep.DataSummary[p] = summarize(s)
	}

	if day, ok := series[model.PeriodDay]; ok {
		lv, err := a.Levels.AnalyzeComprehensive(day)
		if err != nil {
			return nil, fmt.Errorf("levels: %w", err)
		}
		rep.Levels = lv
		rep.Signals = calculator.DetectSignals(rep.Frames[model.PeriodDay])
	}

	rep.Elapsed = time.Since(start)
	log.Infow("analysis done", "periods", len(rep.Frames), "elapsed", rep.Elapsed)
	return rep, nil
}

func summarize(s model.PriceSeries) DataSummary {
	d := DataSummary{Bars: s.Len(), FetchedAt: s.FetchedAt}
	if s.Len() > 0 {
		d.First = s.Bars[0].Time
		d.Last = s.Bars[s.Len()-1].Time
	}
	return d
}

// BatchResult is the outcome of one symbol in a batch.
type BatchResult struct {
	Symbol string
	Report *Report
	Err    error
}

// RunBatch analyzes symbols with at most Options.Concurrency running at
// once. Results keep the input order; one failing symbol does not stop the
// others.
func (a *Analyzer) RunBatch(ctx context.Context, symbols []string) []BatchResult {
	results := make([]BatchResult, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.Options.Concurrency))
	for i, sym := range symbols {
		g.Go(func() error {
			rep, err := a.Analyze(gctx, sym)
			results[i] = BatchResult{Symbol: strings.ToUpper(strings.TrimSpace(sym)), Report: rep, Err: err}
			if err != nil {
				logger.Get().Errorw("symbol failed", "symbol", sym, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Succeeded counts results without an error.
func Succeeded(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
