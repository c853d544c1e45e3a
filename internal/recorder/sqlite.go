package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/model"
)

// SQLiteRecorder archives bars and runs in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the chart server read while a batch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Get().Infow("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol TEXT    NOT NULL,
			period TEXT    NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, period, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id     TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT    NOT NULL,
			elapsed_ms INTEGER,
			periods    INTEGER,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) SaveBars(ctx context.Context, s model.PriceSeries) error {
	if s.Len() == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO bars
		(symbol, period, ts, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range s.Bars {
		if _, err := stmt.ExecContext(ctx, s.Symbol, string(s.Period), b.Time.UnixMilli(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LoadBars(ctx context.Context, symbol string, period model.Period, limit int) (model.PriceSeries, error) {
	out := model.PriceSeries{Symbol: symbol, Period: period}
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `SELECT ts, open, high, low, close, volume
		FROM bars WHERE symbol = ? AND period = ?
		ORDER BY ts DESC LIMIT ?`, symbol, string(period), limit)
	if err != nil {
		return out, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts int64
		var b model.PriceBar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return out, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.UnixMilli(ts).In(model.China)
		out.Bars = append(out.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate bars: %w", err)
	}
	if len(out.Bars) == 0 {
		return out, ErrNotFound
	}
	slices.Reverse(out.Bars)
	return out, nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, run RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `INSERT INTO analysis_runs
		(run_id, timestamp, symbol, elapsed_ms, periods, error)
		VALUES (?,?,?,?,?,?)`,
		run.RunID, run.Started.Unix(), run.Symbol, run.Elapsed.Milliseconds(), run.Periods, run.Err,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	logger.Get().Info("closing sqlite recorder")
	return r.db.Close()
}
