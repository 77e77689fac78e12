// Package report renders analysis and forecast results into review
// artifacts: an HTML review page and a CSV forecast export.
package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

// ReviewData is everything the review page shows for one client.
type ReviewData struct {
	ClientID    string
	GeneratedAt time.Time
	Analyses    []model.VendorAnalysis
	Forecasts   []ForecastRow
}

// ForecastRow is one vendor group's forecast, flattened for rendering.
type ForecastRow struct {
	DisplayName string
	Category    model.BusinessCategory
	Method      model.ForecastMethod
	Frequency   model.Frequency
	PaymentDay  *int
	Amount      *float64
	Confidence  float64
	Explanation string
}

var reviewFuncs = template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v*100)
	},
	"usd": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	"optDay": func(d *int) string {
		if d == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *d)
	},
	"optUSD": func(a *float64) string {
		if a == nil {
			return "-"
		}
		return fmt.Sprintf("$%.2f", *a)
	},
	"confClass": func(v float64) string {
		switch {
		case v >= 0.7:
			return "high"
		case v >= 0.4:
			return "medium"
		default:
			return "low"
		}
	},
}

var reviewTemplate = template.Must(template.New("review").Funcs(reviewFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Forecast Review - {{.ClientID}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; font-size: 0.9rem; }
th { background: #f5f5f5; }
.high { color: #1a7f37; }
.medium { color: #9a6700; }
.low { color: #cf222e; }
.meta { color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Forecast Review - {{.ClientID}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>

<h2>Pattern Analyses ({{len .Analyses}})</h2>
<table>
<tr><th>Vendor</th><th>Category</th><th>Pattern</th><th>Confidence</th><th>Amount Pattern</th><th>Average</th><th>Txns</th><th>Recommendation</th><th>Reasoning</th></tr>
{{range .Analyses}}
<tr>
<td>{{.DisplayName}}</td>
<td>{{.Category}}</td>
<td>{{.Pattern.PatternType}}</td>
<td class="{{confClass .Pattern.Confidence}}">{{pct .Pattern.Confidence}}</td>
<td>{{.Amounts.PatternType}}</td>
<td>{{usd .Amounts.Average}}</td>
<td>{{.TransactionCount}}</td>
<td>{{.Recommendation}}</td>
<td>{{.Reasoning}}</td>
</tr>
{{end}}
</table>

{{if .Forecasts}}
<h2>Forecasts ({{len .Forecasts}})</h2>
<table>
<tr><th>Vendor</th><th>Category</th><th>Method</th><th>Frequency</th><th>Day</th><th>Amount</th><th>Confidence</th><th>Notes</th></tr>
{{range .Forecasts}}
<tr>
<td>{{.DisplayName}}</td>
<td>{{.Category}}</td>
<td>{{.Method}}</td>
<td>{{.Frequency}}</td>
<td>{{optDay .PaymentDay}}</td>
<td>{{optUSD .Amount}}</td>
<td class="{{confClass .Confidence}}">{{pct .Confidence}}</td>
<td>{{.Explanation}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

// WriteReviewPage renders the review page for the given data.
func WriteReviewPage(w io.Writer, data ReviewData) error {
	if err := reviewTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render review page: %w", err)
	}
	return nil
}
