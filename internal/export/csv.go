package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"opsboard/internal/domain"
)

// BOM is prepended to CSV output for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

func renderCSV(rows []domain.Record, cols []domain.ColumnDefinition, dates map[string]bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Write(BOM)

	w := csv.NewWriter(buf)
	header, body := tabulate(rows, cols, dates)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, line := range body {
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a screen title for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized download filename for a screen export.
// Format: {sanitized_screen_title}_{YYYY-MM-DD}.{ext}
func BuildFilename(screenTitle string, format domain.ExportFormat) string {
	ext := string(format)
	if format == domain.ExportPrint {
		ext = "html"
	}
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(screenTitle), time.Now().Format("2006-01-02"), ext)
}
