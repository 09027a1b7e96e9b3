package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter renders sheets into an .xlsx workbook. The first row of
// every sheet is treated as a header: styled and frozen.
type ExcelWriter struct{}

func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

func (w *ExcelWriter) WriteSheets(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#0C3A6F"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}

		for rowIdx, row := range sheet.Rows {
			for colIdx, value := range row {
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					f.Close()
					return nil, fmt.Errorf("cell coordinates: %w", err)
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					f.Close()
					return nil, fmt.Errorf("set cell %s!%s: %w", sheet.Name, cell, err)
				}
				if rowIdx == 0 {
					if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
						f.Close()
						return nil, fmt.Errorf("style cell %s!%s: %w", sheet.Name, cell, err)
					}
				}
			}
		}

		for i, width := range sheet.Widths {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("column name: %w", err)
			}
			if width > 0 {
				if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
					f.Close()
					return nil, fmt.Errorf("set column width: %w", err)
				}
			}
		}

		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze:      true,
			XSplit:      0,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			f.Close()
			return nil, fmt.Errorf("freeze panes: %w", err)
		}
	}

	f.DeleteSheet("Sheet1")
	if len(sheets) > 0 {
		idx, err := f.GetSheetIndex(sheets[0].Name)
		if err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
