package output

import (
	"fmt"
	"strings"
)

// Sheet is one named table of an export.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

type Writer interface {
	// Write stores sheets at path and returns the files it created.
	Write(path string, sheets []Sheet) ([]string, error)
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
