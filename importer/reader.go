package importer

import (
	"fmt"
	"strings"

	"roomload/schedule"
)

// DefaultSheet is the workbook sheet preferred over the first one.
const DefaultSheet = "DATABASE"

type Reader interface {
	Read(path string) ([]schedule.Row, error)
}

func ReaderForFormat(format string, sheet string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{Sheet: sheet}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// RowsFromTable keys each data row by the header text. The first data row is
// row 2. Fully blank rows are dropped but still advance the row number, and a
// repeated header keeps its first column.
func RowsFromTable(headers []string, data [][]string) []schedule.Row {
	if len(headers) > 0 {
		headers = append([]string(nil), headers...)
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	rows := make([]schedule.Row, 0, len(data))
	for i, cells := range data {
		if blank(cells) {
			continue
		}
		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if _, seen := values[header]; seen {
				continue
			}
			if col < len(cells) {
				values[header] = cells[col]
			} else {
				values[header] = ""
			}
		}
		rows = append(rows, schedule.Row{Number: i + 2, Values: values})
	}
	return rows
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
