package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/cache"
	"FuturesSentinel/internal/collector"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/report"
)

// maxHistoryDays caps the look-back a history request may ask for.
const maxHistoryDays = 3650

// KLine is one bar in the chart client format.
type KLine struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

// handleSymbols lists configured symbols first, then every known product,
// both filtered by q.
func (s *Server) handleSymbols(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	seen := make(map[string]bool)
	out := make([]collector.SymbolInfo, 0)

	for _, sym := range s.config.Symbols {
		sym = strings.ToUpper(sym)
		name := collector.DisplayName(sym)
		if q != "" && !strings.Contains(sym, strings.ToUpper(q)) && !strings.Contains(name, q) {
			continue
		}
		info := collector.SymbolInfo{Symbol: sym, Name: name}
		for _, hit := range collector.Search(collector.ProductCode(sym)) {
			if hit.Symbol == sym {
				info.Exchange = hit.Exchange
			}
		}
		seen[sym] = true
		out = append(out, info)
	}
	for _, hit := range collector.Search(q) {
		if !seen[hit.Symbol] {
			out = append(out, hit)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHistory(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		apiError(c, http.StatusBadRequest, "缺少必需参数: symbol")
		return
	}
	periodKey := c.DefaultQuery("period", "1d")
	period, ok := model.ParsePeriod(periodKey)
	if !ok {
		apiError(c, http.StatusBadRequest, fmt.Sprintf("不支持的周期: %s，支持的周期: 5m, 15m, 1h, 1d", periodKey))
		return
	}

	from, err1 := queryInt(c, "from", 0)
	to, err2 := queryInt(c, "to", time.Now().UnixMilli())
	days, err3 := queryInt(c, "days", int64(s.config.HistoryDays))
	if err := errors.Join(err1, err2, err3); err != nil {
		apiError(c, http.StatusBadRequest, "数据格式错误: "+err.Error())
		return
	}
	if days < 1 || days > maxHistoryDays {
		apiError(c, http.StatusBadRequest, fmt.Sprintf("数据格式错误: days 取值范围为 1-%d", maxHistoryDays))
		return
	}

	ctx := c.Request.Context()
	key := cache.Key("history", map[string]any{"symbol": symbol, "period": period, "from": from, "to": to, "days": days})
	if s.cache != nil {
		if cached, ok, err := cache.GetJSON[[]KLine](ctx, s.cache, key); err == nil && ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	series, err := s.collector.Collect(ctx, symbol, period, int(days))
	if err != nil {
		s.fetchError(c, err)
		return
	}

	bars := make([]KLine, 0, series.Len())
	for _, b := range series.Bars {
		ts := b.Time.UnixMilli()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		bars = append(bars, KLine{Timestamp: ts, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume})
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, bars); err != nil {
			logger.Get().Warnw("history cache store failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, bars)
}

func queryInt(c *gin.Context, name string, def int64) (int64, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, v)
	}
	return n, nil
}

func (s *Server) handleAnalysis(c *gin.Context) {
	rep, err := s.analyzer.Analyze(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.fetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleChart(c *gin.Context) {
	rep, err := s.analyzer.Analyze(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.fetchError(c, err)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.RenderChart(c.Writer, rep); err != nil {
		logger.Get().Errorw("render chart failed", "symbol", rep.Symbol, "error", err)
	}
}

// fetchError maps collection and analysis failures to status codes.
func (s *Server) fetchError(c *gin.Context, err error) {
	var mfe *model.MissingFieldError
	switch {
	case errors.As(err, &mfe):
		apiError(c, http.StatusBadRequest, "数据格式错误: "+err.Error())
	case errors.Is(err, collector.ErrNoData), errors.Is(err, analysis.ErrDataFetch):
		apiError(c, http.StatusNotFound, "数据获取失败: "+err.Error())
	case errors.Is(err, collector.ErrUnsupportedPeriod):
		apiError(c, http.StatusBadRequest, err.Error())
	default:
		apiError(c, http.StatusInternalServerError, "数据获取失败: "+err.Error())
	}
}
