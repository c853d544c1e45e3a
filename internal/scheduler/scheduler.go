package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/cache"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/notifier"
	"FuturesSentinel/internal/report"
)

// Notifier delivers messages; *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the batch analysis on a cron schedule and answers chat
// commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  *analysis.Analyzer
	Notifier  Notifier
	Symbols   []string
	OutputDir string
	Outputs   report.Outputs
	Ctx       context.Context

	running atomic.Bool
}

// NewScheduler creates a new Scheduler. n may be nil to disable
// notifications.
func NewScheduler(ctx context.Context, a *analysis.Analyzer, n Notifier, symbols []string, outputDir string, outs report.Outputs) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  a,
		Notifier:  n,
		Symbols:   symbols,
		OutputDir: outputDir,
		Outputs:   outs,
		Ctx:       ctx,
	}
}

// Register adds the batch task under spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// RegisterCleanup evicts expired cache entries under spec.
func (s *Scheduler) RegisterCleanup(store cache.Store, spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		n, err := store.Cleanup(s.Ctx)
		if err != nil {
			logger.Get().Warnw("cache cleanup failed", "error", err)
			return
		}
		if n > 0 {
			logger.Get().Debugw("cache cleanup", "evicted", n)
		}
	}); err != nil {
		return fmt.Errorf("register cache cleanup: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Get().Infow("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for a running batch.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Get().Info("scheduler stopped")
}

// RunNow runs one batch immediately. It returns nil without running when
// another batch is still in progress.
func (s *Scheduler) RunNow() []analysis.BatchResult {
	if !s.running.CompareAndSwap(false, true) {
		logger.Get().Warn("batch already running, skipped")
		return nil
	}
	defer s.running.Store(false)
	return s.runBatch()
}

func (s *Scheduler) runBatch() []analysis.BatchResult {
	log := logger.Get().Named("batch")
	start := time.Now()
	log.Infow("batch started", "symbols", len(s.Symbols))

	results := s.Analyzer.RunBatch(s.Ctx, s.Symbols)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if _, err := report.WriteOutputs(s.OutputDir, r.Report, s.Outputs); err != nil {
			log.Errorw("write outputs failed", "symbol", r.Symbol, "error", err)
		}
	}
	if path, err := report.WriteBatchIndex(s.OutputDir, results); err != nil {
		log.Errorw("write batch index failed", "error", err)
	} else {
		log.Infow("batch index written", "path", path)
	}

	elapsed := time.Since(start)
	s.trySend(notifier.FormatBatchSummary(results, elapsed))
	log.Infow("batch done", "ok", analysis.Succeeded(results), "total", len(results), "elapsed", elapsed)
	return results
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch strings.ToLower(fields[0]) {
	case "/analyze", "分析":
		if len(fields) < 2 {
			return "用法: /analyze 品种代码 (例如 /analyze RB888)"
		}
		rep, err := s.Analyzer.Analyze(ctx, fields[1])
		if err != nil {
			return fmt.Sprintf("❌ %s 分析失败: %s", strings.ToUpper(fields[1]), html.EscapeString(err.Error()))
		}
		return notifier.FormatBrief(rep)
	case "/batch", "批量分析":
		if s.running.Load() {
			return "批量分析正在进行中"
		}
		go s.RunNow()
		return fmt.Sprintf("已开始批量分析 %d 个品种", len(s.Symbols))
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logger.Get().Errorw("send notification failed", "error", err)
	}
}
