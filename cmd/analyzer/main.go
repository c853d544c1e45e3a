package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/cache"
	"FuturesSentinel/internal/collector"
	"FuturesSentinel/internal/config"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/metrics"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/notifier"
	"FuturesSentinel/internal/recorder"
	"FuturesSentinel/internal/report"
	"FuturesSentinel/internal/scheduler"
	"FuturesSentinel/internal/server"
)

type flags struct {
	configPath string
	days       int
	output     string
	noChart    bool
	noReport   bool
	parquet    bool
	batch      bool
	daemon     bool
	serve      bool
	runOnStart bool
}

func parseFlags() (flags, string) {
	var f flags
	flag.StringVar(&f.configPath, "config", envOr("CONFIG_PATH", "configs/config.yaml"), "config file")
	flag.IntVar(&f.days, "d", 0, "look-back in days (default from config, 30)")
	flag.StringVar(&f.output, "o", "", "output directory (default from config, output)")
	flag.BoolVar(&f.noChart, "no-chart", false, "skip the HTML chart")
	flag.BoolVar(&f.noReport, "no-report", false, "skip the text report")
	flag.BoolVar(&f.parquet, "parquet", false, "export indicator frames as Parquet")
	flag.BoolVar(&f.batch, "batch", false, "analyze every configured symbol")
	flag.BoolVar(&f.daemon, "daemon", false, "run the cron batch and Telegram commands")
	flag.BoolVar(&f.serve, "serve", false, "run the chart HTTP server")
	flag.BoolVar(&f.runOnStart, "run-on-start", envOr("RUN_ON_START", "") == "true", "daemon: run one batch at start")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "期货K线自动分析工具（支持多周期）\n\nusage: %s [flags] [symbol]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return f, flag.Arg(0)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	os.Exit(run())
}

func run() int {
	f, symbol := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}
	if f.days > 0 {
		cfg.DataSource.Days = f.days
	}
	if f.output != "" {
		cfg.Analysis.OutputDir = f.output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 2
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 2
	}
	defer logger.Sync()
	log := logger.Get()
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := openCache(ctx, cfg)
	defer closeStore()
	rec := openRecorder(cfg)
	defer rec.Close()

	fetcher := newFetcher(cfg)
	log.Infow("data source", "name", fetcher.Name())
	col := collector.NewCollector(fetcher, store, rec)

	periods, _ := cfg.ParsedPeriods()
	analyzer := analysis.NewAnalyzer(col, rec, analysis.Options{
		Periods:        periods,
		Days:           cfg.DataSource.Days,
		RSIStyle:       model.RSIStyle(cfg.Analysis.RSIStyle),
		RecentPatterns: cfg.Analysis.RecentPatterns,
		Concurrency:    cfg.Analysis.Concurrency,
	})
	outs := report.Outputs{
		Report:  *cfg.Analysis.Report && !f.noReport,
		Chart:   *cfg.Analysis.Chart && !f.noChart,
		Parquet: cfg.Analysis.Parquet || f.parquet,
	}

	switch {
	case f.daemon || f.serve:
		return runService(ctx, cfg, f, col, analyzer, store, outs)
	case f.batch:
		return runBatch(ctx, cfg, analyzer, outs)
	default:
		if symbol == "" {
			symbol = cfg.Analysis.Symbols[0]
		}
		return runSingle(ctx, cfg, analyzer, symbol, outs)
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.Provider == "mock" {
		return &collector.MockFetcher{}
	}
	return &collector.FallbackFetcher{
		Primary:   collector.NewSinaFetcher(cfg.DataSource.Proxy, cfg.Timeout()),
		Secondary: collector.NewEastMoneyFetcher(cfg.DataSource.Proxy, cfg.Timeout()),
		OnFallback: func(err error) {
			logger.Get().Warnw("sina failed, trying eastmoney", "error", err)
		},
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Store, func()) {
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.CacheTTL(),
		})
		if err == nil {
			logger.Get().Infow("redis cache connected", "addr", cfg.Cache.RedisAddr)
			return rs, func() { rs.Close() }
		}
		logger.Get().Warnw("redis unavailable, using memory cache", "error", err)
	}
	return cache.NewMemoryStore(cfg.CacheTTL()), func() {}
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		logger.Get().Warnw("create database dir failed, using noop", "error", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logger.Get().Warnw("init sqlite recorder failed, using noop", "error", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func runSingle(ctx context.Context, cfg *config.Config, a *analysis.Analyzer, symbol string, outs report.Outputs) int {
	rep, err := a.Analyze(ctx, symbol)
	if err != nil {
		logger.Get().Errorw("analysis failed", "symbol", symbol, "error", err)
		fmt.Fprintf(os.Stderr, "❌ %s 分析失败: %v\n", strings.ToUpper(symbol), err)
		return 1
	}
	files, err := report.WriteOutputs(cfg.Analysis.OutputDir, rep, outs)
	if err != nil {
		logger.Get().Errorw("write outputs failed", "error", err)
	}

	rule := strings.Repeat("=", 70)
	fmt.Println(rule)
	fmt.Printf("✅ %s %s 分析完成 (%s)\n", rep.Symbol, rep.Name, rep.Elapsed.Round(time.Millisecond))
	fmt.Println(rule)
	fmt.Println(rep.TrendSummary())
	if rep.Levels.Analysis != "" {
		fmt.Println()
		fmt.Println(rep.Levels.Analysis)
	}
	if len(files) > 0 {
		fmt.Println()
		fmt.Println("📁 输出文件:")
		for _, path := range files {
			fmt.Println("  " + path)
		}
	}
	fmt.Println(rule)
	if err != nil {
		return 1
	}
	return 0
}

func runBatch(ctx context.Context, cfg *config.Config, a *analysis.Analyzer, outs report.Outputs) int {
	start := time.Now()
	results := a.RunBatch(ctx, cfg.Analysis.Symbols)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("❌ %-8s %v\n", r.Symbol, r.Err)
			continue
		}
		if _, err := report.WriteOutputs(cfg.Analysis.OutputDir, r.Report, outs); err != nil {
			logger.Get().Errorw("write outputs failed", "symbol", r.Symbol, "error", err)
		}
		up, down := r.Report.Resonance()
		fmt.Printf("✅ %-8s %s 上涨周期 %d / 下跌周期 %d\n", r.Symbol, r.Report.Name, up, down)
	}
	index, err := report.WriteBatchIndex(cfg.Analysis.OutputDir, results)
	if err != nil {
		logger.Get().Errorw("write batch index failed", "error", err)
	}
	fmt.Printf("\n成功 %d / %d，耗时 %s，索引 %s\n", analysis.Succeeded(results), len(results), time.Since(start).Round(time.Second), index)
	if analysis.Succeeded(results) < len(results) {
		return 1
	}
	return 0
}

func runService(ctx context.Context, cfg *config.Config, f flags, col *collector.Collector, a *analysis.Analyzer, store cache.Store, outs report.Outputs) int {
	log := logger.Get()
	g, gctx := errgroup.WithContext(ctx)

	if f.daemon {
		var n scheduler.Notifier
		var tn *notifier.TelegramNotifier
		if cfg.TelegramEnabled() {
			tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
			n = tn
		}
		sched := scheduler.NewScheduler(gctx, a, n, cfg.Analysis.Symbols, cfg.Analysis.OutputDir, outs)
		if err := sched.Register(cfg.Schedule.BatchCron); err != nil {
			log.Errorw("register cron tasks", "error", err)
			return 2
		}
		if err := sched.RegisterCleanup(store, "0 */10 * * * *"); err != nil {
			log.Errorw("register cron tasks", "error", err)
			return 2
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			g.Go(func() error {
				tn.StartPolling(gctx, sched.HandleCommand)
				return nil
			})
			log.Info("telegram polling started")
		}
		if f.runOnStart {
			log.Info("run-on-start enabled, executing batch now")
			g.Go(func() error {
				sched.RunNow()
				return nil
			})
		}
	}

	if f.serve {
		srv := server.NewServer(server.Config{
			Addr:        cfg.Server.Addr,
			Production:  cfg.Log.Env == "production",
			Symbols:     cfg.Analysis.Symbols,
			HistoryDays: cfg.DataSource.Days,
		}, col, a, store)
		g.Go(func() error { return srv.Run(gctx) })
	}

	log.Info("FuturesSentinel is running. Press Ctrl+C to stop.")
	<-gctx.Done()
	log.Info("shutdown signal received, stopping...")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("service stopped with error", "error", err)
		return 1
	}
	log.Info("FuturesSentinel stopped")
	return 0
}
