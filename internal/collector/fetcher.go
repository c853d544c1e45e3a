package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"FuturesSentinel/internal/model"
)

var (
	// ErrNoData means the source answered but had no bars for the request.
	ErrNoData = errors.New("no data returned")
	// ErrUnsupportedPeriod means the source cannot serve the period.
	ErrUnsupportedPeriod = errors.New("unsupported period")
)

// Fetcher loads OHLCV bars for one symbol and period.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error)
	Name() string
}

// China is the exchange time zone of every bar timestamp.
var China = model.China

// BarLimit converts a look-back in days into a bar count. Intraday counts
// assume the day and night sessions: about 54 five-minute, 18 fifteen-minute
// and 5 hourly bars a day. Daily series keep twice the day count. Negative
// look-backs count as zero.
func BarLimit(period model.Period, days int) int {
	days = max(days, 0)
	switch period {
	case model.Period5Min:
		return days * 54
	case model.Period15Min:
		return days * 18
	case model.Period60Min:
		return days * 5
	case model.PeriodDay:
		return days * 2
	default:
		return days * 50
	}
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// normalize sorts bars by time, keeps the last bar of any duplicated
// timestamp, and trims to the newest limit bars when limit > 0.
func normalize(bars []model.PriceBar, limit int) []model.PriceBar {
	slices.SortStableFunc(bars, func(a, b model.PriceBar) int { return a.Time.Compare(b.Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// FallbackFetcher asks Primary first and Secondary when Primary fails or
// returns nothing. Structural errors such as a missing column are not
// retried.
type FallbackFetcher struct {
	Primary    Fetcher
	Secondary  Fetcher
	OnFallback func(primary error)
}

func (f *FallbackFetcher) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *FallbackFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error) {
	s, err := f.Primary.FetchBars(ctx, symbol, period, days)
	if err == nil && s.Len() > 0 {
		return s, nil
	}
	var mfe *model.MissingFieldError
	if errors.As(err, &mfe) || ctx.Err() != nil {
		return s, err
	}
	if err == nil {
		err = ErrNoData
	}
	if f.OnFallback != nil {
		f.OnFallback(err)
	}

	s2, err2 := f.Secondary.FetchBars(ctx, symbol, period, days)
	if err2 != nil {
		return s2, fmt.Errorf("%s failed: %w; %s fallback also failed: %w", f.Primary.Name(), err, f.Secondary.Name(), err2)
	}
	return s2, nil
}
