package exporter

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// writeXLSX renders the table as a single-sheet Excel workbook with a bold,
// frozen header row.
func writeXLSX(table *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for col, title := range table.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	if len(table.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range table.Rows {
		for col, cell := range row {
			name, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// sheetName trims the table name to Excel's 31 character sheet name limit.
func sheetName(name string) string {
	if name == "" {
		return "Report"
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
