package webview

import "html/template"

const pageStyle = `
body { font-family: Inter, sans-serif; background: #f8fafc; color: #1e293b; margin: 0; padding: 24px; }
nav a { margin-right: 12px; padding: 6px 12px; border-radius: 8px; text-decoration: none; color: #475569; }
nav a.active { background: #0d9488; color: #fff; }
.kpis { display: flex; gap: 16px; margin: 16px 0; }
.kpi { background: #fff; border: 1px solid #e2e8f0; border-radius: 12px; padding: 12px 16px; min-width: 160px; }
.kpi .v { font-size: 24px; font-weight: bold; }
table { border-collapse: collapse; width: 100%; background: #fff; margin-top: 16px; }
td, th { padding: 6px 10px; border-bottom: 1px solid #f1f5f9; text-align: left; }
td.hot { color: #f43f5e; font-weight: bold; }
.gauge { background: #e2e8f0; width: 100px; height: 6px; border-radius: 3px; }
.gauge div { background: #0d9488; height: 6px; border-radius: 3px; }
iframe { border: 0; width: 100%; height: 1600px; }
`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>ChemViz</title><style>` + pageStyle + `</style></head>
<body>
<h1>ChemViz</h1>
<form action="/" method="get">
  <label>Dataset id <input name="id" required></label>
  <button type="submit">Open</button>
</form>
</body></html>`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>ChemViz dataset {{.ID}}</title><style>` + pageStyle + `</style></head>
<body>
<h1>Dataset {{.ID}}</h1>
<nav>{{range .Modes}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Title}}</a>{{end}}</nav>
{{if .ReportURL}}<p><a href="{{.ReportURL}}">Download PDF report</a></p>{{end}}
{{if eq (print .State.Mode) "overview"}}
<form method="get">
  <input type="hidden" name="mode" value="overview">
  <label>Bar metric <select name="bar">{{range .Metrics}}<option value="{{.}}"{{if eq . $.State.BarMetric}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
  <label>X <select name="x">{{range .Metrics}}<option value="{{.}}"{{if eq . $.State.CorrelationX}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
  <label>Y <select name="y">{{range .Metrics}}<option value="{{.}}"{{if eq . $.State.CorrelationY}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
  <button type="submit">Apply</button>
</form>
{{end}}
<div class="kpis">{{range .KPIs}}<div class="kpi"><div>{{.Title}}</div><div class="v">{{.Value}} <small>{{.Unit}}</small></div></div>{{end}}</div>
<iframe src="{{.ChartsURL}}" title="charts"></iframe>
<table>
<tr><th>Equipment</th><th>Type</th><th>Flowrate</th><th>Pressure</th><th>Temperature</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Type}}</td>
<td>{{.Flowrate}}<div class="gauge"><div style="width: {{printf "%.0f" .FlowGaugePct}}%"></div></div></td>
<td>{{.Pressure}}</td><td{{if .HighTemp}} class="hot"{{end}}>{{.Temperature}}</td></tr>
{{end}}</table>
</body></html>`))
