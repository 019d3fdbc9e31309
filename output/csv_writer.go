package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVWriter writes a single sheet to path. Additional sheets go to sibling
// files named "<base>-<sheet>.csv".
type CSVWriter struct{}

func (w *CSVWriter) Write(path string, sheets []Sheet) ([]string, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("nothing to write to %s", path)
	}

	written := make([]string, 0, len(sheets))
	for i, sheet := range sheets {
		target := path
		if i > 0 {
			target = siblingPath(path, sheet.Name)
		}
		if err := writeCSVSheet(target, sheet); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

func writeCSVSheet(path string, sheet Sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(sheet.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

func siblingPath(path, sheetName string) string {
	extension := filepath.Ext(path)
	base := strings.TrimSuffix(path, extension)
	if extension == "" {
		extension = ".csv"
	}
	slug := strings.ToLower(strings.Join(strings.Fields(sheetName), "-"))
	return base + "-" + slug + extension
}
