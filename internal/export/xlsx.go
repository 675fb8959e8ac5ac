package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"opsboard/internal/domain"
)

const sheetName = "Export"

func renderXLSX(rows []domain.Record, cols []domain.ColumnDefinition, dates map[string]bool) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	header, body := tabulate(rows, cols, dates)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, name := range header {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cellRef, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cellRef, cellRef, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, line := range body {
		for c, value := range line {
			cellRef, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cellRef, value); err != nil {
				return nil, err
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
