package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"FuturesSentinel/internal/model"
)

// DefaultEastMoneyBaseURL is the host of EastMoney's kline history API.
const DefaultEastMoneyBaseURL = "https://push2his.eastmoney.com"

// EastMoneyFetcher implements Fetcher on EastMoney's kline API. It serves as
// the fallback source when Sina has nothing.
type EastMoneyFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewEastMoneyFetcher creates an EastMoney fetcher with optional proxy support.
func NewEastMoneyFetcher(proxyURL string, timeout time.Duration) *EastMoneyFetcher {
	return &EastMoneyFetcher{BaseURL: DefaultEastMoneyBaseURL, Client: newHTTPClient(proxyURL, timeout)}
}

func (f *EastMoneyFetcher) Name() string { return "eastmoney" }

var emKlineTypes = map[model.Period]string{
	model.Period5Min:  "5",
	model.Period15Min: "15",
	model.Period60Min: "60",
	model.PeriodDay:   "101",
}

// emResponse is the kline envelope. Each kline is a CSV row:
// date,open,close,high,low,volume[,...].
type emResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastMoneyFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error) {
	out := model.PriceSeries{Symbol: strings.ToUpper(symbol), Period: period}
	klt, ok := emKlineTypes[period]
	if !ok {
		return out, fmt.Errorf("eastmoney %s: %w", period, ErrUnsupportedPeriod)
	}
	secid, err := EastMoneySecID(symbol)
	if err != nil {
		return out, err
	}

	limit := BarLimit(period, days)
	q := url.Values{}
	q.Set("secid", secid)
	q.Set("klt", klt)
	q.Set("fqt", "1")
	q.Set("end", "20500101")
	q.Set("lmt", strconv.Itoa(max(limit, 1)))
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56")
	endpoint := f.BaseURL + "/api/qt/stock/kline/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return out, fmt.Errorf("eastmoney fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("eastmoney: status %d", resp.StatusCode)
	}

	var env emResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return out, fmt.Errorf("eastmoney decode: %w", err)
	}
	if env.Data == nil || len(env.Data.Klines) == 0 {
		return out, fmt.Errorf("eastmoney %s %s: %w", secid, period, ErrNoData)
	}

	layout := "2006-01-02 15:04"
	if period == model.PeriodDay {
		layout = time.DateOnly
	}
	bars := make([]model.PriceBar, 0, len(env.Data.Klines))
	for _, line := range env.Data.Klines {
		b, err := parseKline(line, layout)
		if err != nil {
			return out, err
		}
		bars = append(bars, b)
	}
	out.Bars = normalize(bars, limit)
	out.FetchedAt = time.Now()
	return out, nil
}

var klineColumns = []string{"date", "open", "close", "high", "low", "volume"}

func parseKline(line, layout string) (model.PriceBar, error) {
	cols := strings.Split(line, ",")
	if len(cols) < len(klineColumns) {
		return model.PriceBar{}, &model.MissingFieldError{Field: klineColumns[len(cols)]}
	}

	ts, err := time.ParseInLocation(layout, cols[0], China)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("eastmoney: bad bar time %q: %w", cols[0], err)
	}
	vals := make([]float64, 5)
	for i := range vals {
		d, err := decimal.NewFromString(strings.TrimSpace(cols[i+1]))
		if err != nil {
			return model.PriceBar{}, fmt.Errorf("eastmoney: bad %s %q: %w", klineColumns[i+1], cols[i+1], err)
		}
		vals[i] = d.InexactFloat64()
	}
	return model.PriceBar{Time: ts, Open: vals[0], Close: vals[1], High: vals[2], Low: vals[3], Volume: vals[4]}, nil
}
