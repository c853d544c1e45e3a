package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/logger"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/trend"
)

// Outputs selects the files WriteOutputs produces.
type Outputs struct {
	Report  bool
	Chart   bool
	Parquet bool
}

// WriteOutputs writes <symbol>_report.txt, <symbol>_chart.html and one
// <symbol>_<period>.parquet per frame into dir, as selected by out. It
// returns the paths written.
func WriteOutputs(dir string, rep *analysis.Report, out Outputs) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var files []string

	if out.Report {
		path := filepath.Join(dir, rep.Symbol+"_report.txt")
		if err := os.WriteFile(path, []byte(FullReport(rep)+"\n"), 0o644); err != nil {
			return files, fmt.Errorf("write report: %w", err)
		}
		files = append(files, path)
	}

	if out.Chart {
		var buf bytes.Buffer
		if err := RenderChart(&buf, rep); err != nil {
			return files, err
		}
		path := filepath.Join(dir, rep.Symbol+"_chart.html")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return files, fmt.Errorf("write chart: %w", err)
		}
		files = append(files, path)
	}

	if out.Parquet {
		for _, p := range model.DefaultPeriods {
			f, ok := rep.Frames[p]
			if !ok {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.parquet", rep.Symbol, p))
			if err := ExportParquet(path, f); err != nil {
				return files, err
			}
			files = append(files, path)
		}
	}

	logger.Get().Infow("outputs written", "symbol", rep.Symbol, "files", len(files), "dir", dir)
	return files, nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>期货技术分析 {{.Generated}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
.err { color: #ef4444; }
</style>
</head>
<body>
<h1>期货技术分析 {{.Generated}}</h1>
<p>成功 {{.OK}} / {{.Total}}</p>
<table>
<tr><th>品种</th><th>名称</th><th>日线趋势</th><th>最新价</th><th>报告</th><th>图表</th></tr>
{{range .Rows}}<tr>
<td>{{.Symbol}}</td><td>{{.Name}}</td>
{{if .Err}}<td colspan="4" class="err">{{.Err}}</td>{{else}}<td>{{.Trend}}</td><td>{{.Price}}</td>
<td><a href="{{.Symbol}}_report.txt">report</a></td><td><a href="{{.Symbol}}_chart.html">chart</a></td>{{end}}
</tr>
{{end}}</table>
</body>
</html>
`))

type indexRow struct {
	Symbol, Name, Trend, Price, Err string
}

// WriteBatchIndex writes index.html linking every symbol's outputs and
// listing the failures.
func WriteBatchIndex(dir string, results []analysis.BatchResult) (string, error) {
	data := struct {
		Generated string
		OK, Total int
		Rows      []indexRow
	}{
		Generated: time.Now().Format("2006-01-02 15:04"),
		OK:        analysis.Succeeded(results),
		Total:     len(results),
	}
	for _, r := range results {
		row := indexRow{Symbol: r.Symbol}
		if r.Err != nil {
			row.Err = r.Err.Error()
			data.Rows = append(data.Rows, row)
			continue
		}
		row.Name = r.Report.Name
		row.Trend = headlineTrend(r.Report)
		if bar, ok := r.Report.LatestBar(); ok {
			row.Price = fmt.Sprintf("%.2f", bar.Close)
		}
		data.Rows = append(data.Rows, row)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render index: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}
	return path, nil
}

// headlineTrend is the daily verdict text, or the first verdict when the
// daily series is missing.
func headlineTrend(rep *analysis.Report) string {
	if len(rep.Trends) == 0 {
		return trend.TrendText(model.Unknown)
	}
	v := rep.Trends[0]
	for _, t := range rep.Trends {
		if t.Period == model.PeriodDay {
			v = t
		}
	}
	return trend.TrendText(v.Trend) + trend.StrengthText(v.Strength)
}
