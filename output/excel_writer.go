package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes every sheet into one workbook.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, sheets []Sheet) ([]string, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("nothing to write to %s", path)
	}

	file := excelize.NewFile()
	defer file.Close()

	for i, sheet := range sheets {
		name := sheet.Name
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		for col, header := range sheet.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := file.SetCellValue(name, cell, header); err != nil {
				return nil, fmt.Errorf("set excel header %s: %w", cell, err)
			}
		}

		for i, values := range sheet.Rows {
			row := i + 2
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := file.SetCellValue(name, cell, value); err != nil {
					return nil, fmt.Errorf("set excel value %s: %w", cell, err)
				}
			}
		}

		if err := file.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("freeze header of %s: %w", name, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save excel output %s: %w", path, err)
	}

	return []string{path}, nil
}
