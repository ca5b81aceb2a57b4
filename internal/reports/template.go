package reports

import (
	"bytes"
	"html/template"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>RFP Analysis Report</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 0; }
h1 { font-size: 22px; border-bottom: 2px solid #2c3e50; padding-bottom: 8px; }
h2 { font-size: 16px; color: #2c3e50; margin-top: 24px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #d0d0d0; padding: 6px 10px; text-align: left; font-size: 12px; }
th { background: #f4f6f8; }
.risk { color: #b03030; }
.met { color: #2d7a36; }
.unmet { color: #b03030; }
li { font-size: 12px; margin-bottom: 4px; }
</style>
</head>
<body>
<h1>RFP Analysis Report</h1>
<p>{{.RFPName}}</p>

<h2>Scores</h2>
<table>
<tr><th>Overall Score</th><th>Technical Match</th><th>Requirement Coverage</th></tr>
<tr><td>{{printf "%.1f" .Doc.Scores.OverallScore}}%</td><td>{{printf "%.1f" .Doc.Scores.TechnicalMatch}}%</td><td>{{printf "%.1f" .Doc.Scores.RequirementCoverage}}%</td></tr>
</table>

<h2>Risks</h2>
{{if .Doc.Risks}}
<ul>{{range .Doc.Risks}}<li class="risk">{{.}}</li>{{end}}</ul>
{{else}}<p>No risks identified.</p>{{end}}

<h2>Qualifications</h2>
{{if .Doc.Qualifications}}
<table>
<tr><th>Type</th><th>Requirement</th><th>Status</th></tr>
{{range .Doc.Qualifications}}
<tr><td>{{.Type}}</td><td>{{.Details}}</td><td class="{{if .Met}}met{{else}}unmet{{end}}">{{if .Met}}Met{{else}}Not met{{end}}</td></tr>
{{end}}
</table>
{{else}}<p>No qualifications extracted.</p>{{end}}

<h2>Submission Checklist</h2>
<ul>{{range .Doc.Checklist}}<li>{{.}}</li>{{end}}</ul>
</body>
</html>
`))

func renderReportHTML(doc ReportDocument, rfpName string) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		RFPName string
		Doc     ReportDocument
	}{RFPName: rfpName, Doc: doc}
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
