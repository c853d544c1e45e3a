package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func daySeries(start time.Time, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Symbol: "RB0", Period: model.PeriodDay}
	for i, c := range closes {
		s.Bars = append(s.Bars, model.PriceBar{
			Time: start.AddDate(0, 0, i), Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 1000 + float64(i),
		})
	}
	return s
}

func TestSaveAndLoadBars(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t)
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.SaveBars(ctx, daySeries(start, 3500, 3510, 3520)))
	// overlapping save replaces the last bar and appends one more
	require.NoError(t, r.SaveBars(ctx, daySeries(start.AddDate(0, 0, 2), 3525, 3530)))

	got, err := r.LoadBars(ctx, "RB0", model.PeriodDay, 0)
	require.NoError(t, err)
	require.Equal(t, 4, got.Len())
	assert.Equal(t, []float64{3500, 3510, 3525, 3530}, got.Closes())
	assert.Equal(t, start.UnixMilli(), got.Bars[0].Time.UnixMilli())
	assert.Equal(t, model.China, got.Bars[0].Time.Location(), "archived bars come back in exchange time")
	assert.Equal(t, "2025-03-03 08:00", got.Bars[0].Time.Format("2006-01-02 15:04"))

	tail, err := r.LoadBars(ctx, "RB0", model.PeriodDay, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3525, 3530}, tail.Closes())

	_, err = r.LoadBars(ctx, "RB0", model.Period5Min, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t)

	run := RunRecord{
		RunID:   "run-1",
		Symbol:  "RB0",
		Started: time.Now(),
		Elapsed: 1500 * time.Millisecond,
		Periods: 4,
	}
	require.NoError(t, r.RecordRun(ctx, run))

	var elapsed int64
	var periods int
	require.NoError(t, r.db.QueryRow(`SELECT elapsed_ms, periods FROM analysis_runs WHERE run_id = ?`, "run-1").Scan(&elapsed, &periods))
	assert.EqualValues(t, 1500, elapsed)
	assert.Equal(t, 4, periods)

	failed := RunRecord{RunID: "run-2", Symbol: "XX0", Started: time.Now(), Err: "data fetch failed"}
	require.NoError(t, r.RecordRun(ctx, failed))
	var msg string
	require.NoError(t, r.db.QueryRow(`SELECT error FROM analysis_runs WHERE run_id = ?`, "run-2").Scan(&msg))
	assert.Equal(t, "data fetch failed", msg)

	assert.Error(t, r.RecordRun(ctx, run), "run ids are unique")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	ctx := context.Background()
	assert.NoError(t, r.SaveBars(ctx, model.PriceSeries{}))
	assert.NoError(t, r.RecordRun(ctx, RunRecord{}))
	_, err := r.LoadBars(ctx, "RB0", model.PeriodDay, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, r.Close())
}
