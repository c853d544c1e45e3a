package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/model"
)

func emServer(t *testing.T, body string, check func(r *http.Request)) *EastMoneyFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &EastMoneyFetcher{BaseURL: srv.URL, Client: srv.Client()}
}

func TestEastMoneyFetcher_Daily(t *testing.T) {
	body := `{"rc":0,"data":{"code":"rbm","name":"螺纹钢主连","klines":[
		"2025-03-03,3280.0,3300.0,3310.0,3270.0,1100000,0",
		"2025-03-04,3300.0,3320.0,3330.0,3290.0,1200000,0"]}}`
	f := emServer(t, body, func(r *http.Request) {
		assert.Equal(t, "/api/qt/stock/kline/get", r.URL.Path)
		assert.Equal(t, "113.rbm", r.URL.Query().Get("secid"))
		assert.Equal(t, "101", r.URL.Query().Get("klt"))
		assert.Equal(t, "60", r.URL.Query().Get("lmt"))
	})

	s, err := f.FetchBars(context.Background(), "RB888", model.PeriodDay, 30)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	b := s.Bars[1]
	assert.Equal(t, model.PriceBar{Time: b.Time, Open: 3300, High: 3330, Low: 3290, Close: 3320, Volume: 1200000}, b)
}

func TestEastMoneyFetcher_Errors(t *testing.T) {
	f := emServer(t, `{"rc":0,"data":null}`, nil)
	_, err := f.FetchBars(context.Background(), "RB888", model.PeriodDay, 30)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = f.FetchBars(context.Background(), "ZZ888", model.PeriodDay, 30)
	assert.ErrorContains(t, err, "unknown futures product")

	short := emServer(t, `{"rc":0,"data":{"klines":["2025-03-03,1,2,3"]}}`, nil)
	_, err = short.FetchBars(context.Background(), "RB888", model.PeriodDay, 30)
	var mfe *model.MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "low", mfe.Field)
}

func TestFallbackFetcher(t *testing.T) {
	ctx := context.Background()
	primary := &MockFetcher{Errs: map[model.Period]error{model.PeriodDay: ErrNoData}}
	secondary := &MockFetcher{Price: 4000}
	var fellBack error
	f := &FallbackFetcher{Primary: primary, Secondary: secondary, OnFallback: func(err error) { fellBack = err }}

	s, err := f.FetchBars(ctx, "RB888", model.PeriodDay, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Len())
	assert.ErrorIs(t, fellBack, ErrNoData)
	assert.EqualValues(t, 1, secondary.Calls())
	assert.Equal(t, "mock+mock", f.Name())

	// primary success never touches the secondary
	_, err = f.FetchBars(ctx, "RB888", model.Period5Min, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, secondary.Calls())

	secondary.Errs = map[model.Period]error{model.PeriodDay: errors.New("down")}
	_, err = f.FetchBars(ctx, "RB888", model.PeriodDay, 10)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorContains(t, err, "down")

	missing := &FallbackFetcher{
		Primary:   &MockFetcher{Errs: map[model.Period]error{model.PeriodDay: &model.MissingFieldError{Field: "close"}}},
		Secondary: secondary,
	}
	_, err = missing.FetchBars(ctx, "RB888", model.PeriodDay, 10)
	var mfe *model.MissingFieldError
	assert.True(t, errors.As(err, &mfe))
	assert.EqualValues(t, 2, secondary.Calls())
}
