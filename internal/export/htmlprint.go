package export

import (
	"bytes"
	"html/template"

	"opsboard/internal/domain"
)

// printTemplate is a self-contained document that triggers the browser's
// print dialog as soon as it loads, matching the print flow of the screens.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Arial, sans-serif; margin: 16px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; font-size: 12px; text-align: left; }
th { background: #ddd; }
</style>
</head>
<body onload="window.print()">
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Body}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

func renderHTML(rows []domain.Record, cols []domain.ColumnDefinition, dates map[string]bool) ([]byte, error) {
	header, body := tabulate(rows, cols, dates)

	buf := &bytes.Buffer{}
	err := printTemplate.Execute(buf, struct {
		Header []string
		Body   [][]string
	}{Header: header, Body: body})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
