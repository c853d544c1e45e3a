package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"FuturesSentinel/internal/model"
)

// DefaultSinaBaseURL is the host of Sina's futures JSONP service.
const DefaultSinaBaseURL = "https://stock2.finance.sina.com.cn"

// SinaFetcher implements Fetcher on Sina's public futures endpoints.
type SinaFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewSinaFetcher creates a Sina fetcher with optional proxy support.
func NewSinaFetcher(proxyURL string, timeout time.Duration) *SinaFetcher {
	return &SinaFetcher{BaseURL: DefaultSinaBaseURL, Client: newHTTPClient(proxyURL, timeout)}
}

func (f *SinaFetcher) Name() string { return "sina" }

var sinaMinuteTypes = map[model.Period]string{
	model.Period5Min:  "5",
	model.Period15Min: "15",
	model.Period60Min: "60",
}

// sinaBar is one element of the JSONP array. Every value arrives as a string.
type sinaBar struct {
	D *string          `json:"d"`
	O *decimal.Decimal `json:"o"`
	H *decimal.Decimal `json:"h"`
	L *decimal.Decimal `json:"l"`
	C *decimal.Decimal `json:"c"`
	V *decimal.Decimal `json:"v"`
}

func (f *SinaFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error) {
	sym := SinaSymbol(symbol)
	out := model.PriceSeries{Symbol: strings.ToUpper(symbol), Period: period}

	var endpoint, layout string
	if period == model.PeriodDay {
		endpoint = fmt.Sprintf("%s/futures/api/jsonp.php/var%%20_%s=/InnerFuturesNewService.getDailyKLine?symbol=%s",
			f.BaseURL, sym, url.QueryEscape(sym))
		layout = time.DateOnly
	} else {
		typ, ok := sinaMinuteTypes[period]
		if !ok {
			return out, fmt.Errorf("sina %s: %w", period, ErrUnsupportedPeriod)
		}
		endpoint = fmt.Sprintf("%s/futures/api/jsonp.php/=/InnerFuturesNewService.getFewMinLine?symbol=%s&type=%s",
			f.BaseURL, url.QueryEscape(sym), typ)
		layout = time.DateTime
	}

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return out, err
	}
	payload, err := unwrapJSONP(body)
	if err != nil {
		return out, err
	}

	var rows []sinaBar
	if err := json.Unmarshal(payload, &rows); err != nil {
		return out, fmt.Errorf("sina decode: %w", err)
	}
	if len(rows) == 0 {
		return out, fmt.Errorf("sina %s %s: %w", sym, period, ErrNoData)
	}

	bars := make([]model.PriceBar, 0, len(rows))
	for _, r := range rows {
		b, err := r.toBar(layout)
		if err != nil {
			return out, err
		}
		bars = append(bars, b)
	}
	out.Bars = normalize(bars, BarLimit(period, days))
	out.FetchedAt = time.Now()
	return out, nil
}

func (f *SinaFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://finance.sina.com.cn/")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sina fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sina read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sina: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// unwrapJSONP returns the JSON inside "callback(...);". A bare JSON body is
// returned unchanged; "null" payloads mean no data.
func unwrapJSONP(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if i, j := bytes.IndexByte(body, '('), bytes.LastIndexByte(body, ')'); i >= 0 && j > i {
		body = bytes.TrimSpace(body[i+1 : j])
	}
	switch {
	case len(body) == 0, bytes.Equal(body, []byte("null")):
		return nil, ErrNoData
	case body[0] != '[' && body[0] != '{':
		return nil, fmt.Errorf("sina: unexpected payload %q", truncate(body, 60))
	}
	return body, nil
}

func (r sinaBar) toBar(layout string) (model.PriceBar, error) {
	switch {
	case r.D == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: "date"}
	case r.O == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: model.FieldOpen.String()}
	case r.H == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: model.FieldHigh.String()}
	case r.L == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: model.FieldLow.String()}
	case r.C == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: model.FieldClose.String()}
	case r.V == nil:
		return model.PriceBar{}, &model.MissingFieldError{Field: model.FieldVolume.String()}
	}

	ts, err := time.ParseInLocation(layout, *r.D, China)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("sina: bad bar time %q: %w", *r.D, err)
	}
	return model.PriceBar{
		Time:   ts,
		Open:   r.O.InexactFloat64(),
		High:   r.H.InexactFloat64(),
		Low:    r.L.InexactFloat64(),
		Close:  r.C.InexactFloat64(),
		Volume: r.V.InexactFloat64(),
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
