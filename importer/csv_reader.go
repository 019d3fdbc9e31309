package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"roomload/schedule"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]schedule.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses a header-first CSV stream into rows.
func ReadCSV(input io.Reader) ([]schedule.Row, error) {
	reader := csv.NewReader(input)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	data := make([][]string, 0, 128)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(data)+2, err)
		}
		data = append(data, record)
	}

	return RowsFromTable(headers, data), nil
}
