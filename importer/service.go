package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"roomload/schedule"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	Files          []FileRows
}

// FileRows holds the rows read from one source file.
type FileRows struct {
	Path string
	Rows []schedule.Row
}

// Rows concatenates the rows of every file in input order.
func (r *Result) Rows() []schedule.Row {
	out := make([]schedule.Row, 0, r.RowsRead)
	for _, file := range r.Files {
		out = append(out, file.Rows...)
	}
	return out
}

type RunOptions struct {
	Format string
	Sheet  string
}

func Run(paths []string, options RunOptions) (*Result, error) {
	result := &Result{Files: make([]FileRows, 0, len(paths))}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, options.Format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat, options.Sheet)
		if err != nil {
			return nil, err
		}

		rows, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(rows)
		result.Files = append(result.Files, FileRows{Path: path, Rows: rows})
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
