// internal/feed/csv.go

// Package feed loads work items from CSV input files.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// LoadCSV reads a CSV file into work items, one per data row. The first
// row is the header. Rows shorter than the header get empty strings for
// the missing cells.
func LoadCSV(path string) ([]lead.WorkItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	items, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, nil
}

// ReadCSV reads CSV content from a reader into work items.
func ReadCSV(r io.Reader) ([]lead.WorkItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var items []lead.WorkItem
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(items)+2, err)
		}

		item := make(lead.WorkItem, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			item[col] = value
		}
		items = append(items, item)
	}
	return items, nil
}
