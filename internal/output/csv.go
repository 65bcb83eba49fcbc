// internal/output/csv.go

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// WriteCSVFile writes the enriched records to a CSV file at path,
// creating parent directories as needed.
func WriteCSVFile(path string, records []lead.LeadRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes records as CSV: a header row followed by one row per
// record. No records still yields a valid empty file.
func WriteCSV(w io.Writer, records []lead.LeadRecord) error {
	if len(records) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	header := exportHeader(records)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = cellValue(r, col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
