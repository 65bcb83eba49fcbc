// internal/output/excel.go

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// maxCellLength is the Excel limit on characters in a single cell.
const maxCellLength = 32767

// WriteExcelFile writes the enriched records to an XLSX workbook at path,
// one header row plus one row per record on the given sheet.
func WriteExcelFile(path, sheetName string, records []lead.LeadRecord) error {
	if sheetName == "" {
		sheetName = "Leads"
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
	}
	file.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		file.DeleteSheet("Sheet1")
	}

	header := exportHeader(records)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to map header cell: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}

	for i, r := range records {
		for col, name := range header {
			value := cellValue(r, name)
			if len(value) > maxCellLength {
				value = value[:maxCellLength]
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to map cell: %w", err)
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), len(records)+1)
		if err == nil {
			file.AutoFilter(sheetName, "A1:"+last, nil)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
