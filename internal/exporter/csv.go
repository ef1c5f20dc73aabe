package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// writeCSV renders the table as RFC 4180 CSV with a header row.
func writeCSV(table *Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Header); err != nil {
		return err
	}

	record := make([]string, len(table.Header))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders a cell value without the exponent notation %v would use
// for large floats.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
