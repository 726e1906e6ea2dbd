package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/knowlyr/datacheck/internal/model"
)

// htmlReport is the template context for HTML rendering
type htmlReport struct {
	Title  string
	Result *model.CheckResult
	Rules  []htmlRuleRow
}

type htmlRuleRow struct {
	Name     string
	Severity model.Severity
	Passed   int
	Failed   int
	Samples  string
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":  func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"ints": intList,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Data Quality Report: {{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f5f5f5; }
.rating-excellent { color: #2a7a2a; }
.rating-good { color: #4a8a4a; }
.rating-fair { color: #b8860b; }
.rating-poor { color: #b22222; }
.severity-error { color: #b22222; }
.severity-warning { color: #b8860b; }
.severity-info { color: #4682b4; }
</style>
</head>
<body>
<h1>Data Quality Report: {{.Title}}</h1>

<h2>Summary</h2>
<table>
<tr><th>Total samples</th><td>{{.Result.Total}}</td></tr>
<tr><th>Passed</th><td>{{.Result.Passed}}</td></tr>
<tr><th>Failed</th><td>{{.Result.Failed}}</td></tr>
<tr><th>Pass rate</th><td>{{pct .Result.PassRate}}</td></tr>
<tr><th>Rating</th><td class="rating-{{.Result.Rating}}">{{.Result.Rating}}</td></tr>
<tr><th>Errors</th><td>{{.Result.ErrorCount}}</td></tr>
<tr><th>Warnings</th><td>{{.Result.WarningCount}}</td></tr>
<tr><th>Infos</th><td>{{.Result.InfoCount}}</td></tr>
</table>

{{if .Rules}}
<h2>Rules</h2>
<table>
<tr><th>Rule</th><th>Severity</th><th>Passed</th><th>Failed</th><th>Failing samples</th></tr>
{{range .Rules}}
<tr><td>{{.Name}}</td><td class="severity-{{.Severity}}">{{.Severity}}</td><td>{{.Passed}}</td><td>{{.Failed}}</td><td>{{.Samples}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Result.Duplicates}}
<h2>Exact Duplicates</h2>
<ul>
{{range .Result.Duplicates}}<li>samples {{ints .}}</li>
{{end}}</ul>
{{end}}

{{if .Result.NearDuplicates}}
<h2>Near Duplicates</h2>
<ul>
{{range .Result.NearDuplicates}}<li>samples {{ints .}}</li>
{{end}}</ul>
{{end}}

{{if .Result.Anomalies}}
<h2>Anomalies</h2>
<table>
<tr><th>Field</th><th>Method</th><th>Lower</th><th>Upper</th><th>Outliers</th></tr>
{{range $field, $rep := .Result.Anomalies}}
<tr><td>{{$field}}</td><td>{{$rep.Method}}</td><td>{{printf "%.2f" $rep.Bounds.Lower}}</td><td>{{printf "%.2f" $rep.Bounds.Upper}}</td><td>{{ints $rep.OutlierIndices}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

func renderHTML(result *model.CheckResult, title string) (string, error) {
	ctx := htmlReport{Title: title, Result: result}
	for _, id := range sortedRuleIDs(result.RuleResults) {
		stat := result.RuleResults[id]
		ctx.Rules = append(ctx.Rules, htmlRuleRow{
			Name:     stat.Name,
			Severity: stat.Severity,
			Passed:   stat.Passed,
			Failed:   stat.Failed,
			Samples:  intList(stat.FailedSamples),
		})
	}

	var b strings.Builder
	if err := htmlTemplate.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}
