package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"roomload/schedule"
)

type ExcelReader struct {
	// Sheet names the preferred sheet, matched case-insensitively. When no
	// sheet matches, the first sheet is read.
	Sheet string
}

func (r *ExcelReader) Read(path string) ([]schedule.Row, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := r.selectSheet(file.GetSheetList())
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return RowsFromTable(rows[0], rows[1:]), nil
}

func (r *ExcelReader) selectSheet(names []string) string {
	if len(names) == 0 {
		return ""
	}
	preferred := strings.TrimSpace(r.Sheet)
	if preferred == "" {
		preferred = DefaultSheet
	}
	for _, name := range names {
		if strings.EqualFold(name, preferred) {
			return name
		}
	}
	return names[0]
}
