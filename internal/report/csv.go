// Package report renders tabular query results as CSV files for the export
// and dry-run-output commands.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Write emits a header row followed by the data rows.
func Write(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the CSV to path, truncating any existing file.
func WriteFile(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := Write(f, headers, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
