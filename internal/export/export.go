// Package export renders an already-fetched, unpaginated result set into the
// download formats offered by every screen's toolbar. Rendering is a pure
// transformation over the rows, the effective column layout, and the
// screen's date-column allow-list.
package export

import (
	"fmt"
	"strconv"
	"time"

	"opsboard/internal/domain"
)

// dateLayout is the fixed human-readable format for date-flagged columns.
const dateLayout = "02 Jan 2006"

// acceptedDateLayouts are the wire shapes a date cell may arrive in.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Render produces the export payload for one format. A nil payload with a
// nil error means there was nothing to render (zero rows); callers produce
// no file in that case.
func Render(format domain.ExportFormat, rows []domain.Record, cols []domain.ColumnDefinition, dateColumns []string) ([]byte, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil
	}
	dates := make(map[string]bool, len(dateColumns))
	for _, d := range dateColumns {
		dates[d] = true
	}

	switch format {
	case domain.ExportCSV:
		return renderCSV(rows, cols, dates)
	case domain.ExportXLSX:
		return renderXLSX(rows, cols, dates)
	case domain.ExportPDF:
		return renderPDF(rows, cols, dates)
	case domain.ExportPrint:
		return renderHTML(rows, cols, dates)
	default:
		return nil, domain.ErrInvalidFormat
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format domain.ExportFormat) string {
	switch format {
	case domain.ExportCSV:
		return "text/csv"
	case domain.ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case domain.ExportPDF:
		return "application/pdf"
	case domain.ExportPrint:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// cell formats one value for output. Nulls and empty strings render as "-",
// boolean-likes as Yes/No, and date-flagged columns through the fixed
// human-readable formatter.
func cell(v any, isDate bool) string {
	if v == nil {
		return "-"
	}
	switch val := v.(type) {
	case bool:
		return yesNo(val)
	case time.Time:
		return val.Format(dateLayout)
	case string:
		if val == "" {
			return "-"
		}
		if isDate {
			if t, ok := parseDate(val); ok {
				return t.Format(dateLayout)
			}
		}
		return val
	case []byte:
		if len(val) == 0 {
			return "-"
		}
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// tabulate resolves rows into a header plus string cells in column order.
func tabulate(rows []domain.Record, cols []domain.ColumnDefinition, dates map[string]bool) (header []string, body [][]string) {
	header = make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.DisplayName
	}
	body = make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = cell(row[c.ColumnName], dates[c.ColumnName])
		}
		body[i] = line
	}
	return header, body
}
