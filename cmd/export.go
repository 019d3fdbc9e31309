package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"roomload/output"
	"roomload/refresh"
)

var (
	exportSource rowSourceFlags
	exportFormat string
	exportMode   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the occupancy grid or teaching loads to CSV/Excel, or a chart to HTML",
	Long: `Build the views and export them.

Modes:
- allocation: occupancy per slot and occupied rooms per slot
- loads: load summary, weekly schedule and slot matrix per instructor
- all: both of the above
- chart: HTML page with a stacked occupied/vacant bar chart per day

Excel output holds one worksheet per table. CSV output writes the first table
to --output and each further table next to it as <name>-<table>.csv.
Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Occupancy grid to Excel from the staged rows
  roomload export --mode allocation --output ./occupancy.xlsx

  # Loads from a CSV file to CSV tables
  roomload export --mode loads -i ./schedule.csv --output ./loads.csv

  # Occupancy chart
  roomload export --mode chart --output ./occupancy.html
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := strings.TrimSpace(strings.ToLower(exportMode))
		if _, err := exportSheets(mode, nil); err != nil {
			return err
		}

		snapshot, err := loadSnapshot(cmd, &exportSource)
		if err != nil {
			return err
		}

		if mode == "chart" {
			if err := output.WriteOccupancyChart(exportOutput, snapshot.Grid); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Mode: chart, File: %s\n", len(snapshot.Grid.Days), exportOutput)
			return nil
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		sheets, err := exportSheets(mode, snapshot)
		if err != nil {
			return err
		}
		if len(sheets) == 0 {
			return fmt.Errorf("nothing to export for mode %s", mode)
		}

		files, err := writer.Write(exportOutput, sheets)
		if err != nil {
			return err
		}
		fmt.Printf("Export completed. Tables: %d, Mode: %s, Format: %s, Files: %s\n", len(sheets), mode, format, strings.Join(files, ", "))
		printSkipped(snapshot.Report)
		return nil
	},
}

// exportSheets returns the tables for mode. A nil snapshot only validates
// the mode.
func exportSheets(mode string, snapshot *refresh.Snapshot) ([]output.Sheet, error) {
	switch mode {
	case "allocation", "loads", "all", "chart":
	default:
		return nil, fmt.Errorf("unsupported export mode: %s (supported: allocation, loads, all, chart)", mode)
	}
	if snapshot == nil || mode == "chart" {
		return nil, nil
	}

	var sheets []output.Sheet
	if (mode == "allocation" || mode == "all") && snapshot.HasAllocation() {
		sheets = append(sheets, output.AllocationSheets(snapshot.Grid)...)
	}
	if (mode == "loads" || mode == "all") && snapshot.HasLoads() {
		var slotsFor output.SlotLookup
		if snapshot.Slots != nil {
			slotsFor = snapshot.Slots.SlotsFor
		}
		sheets = append(sheets, output.LoadSheets(snapshot.Loads, slotsFor)...)
	}
	return sheets, nil
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportSource.register(exportCmd, "input-format")
	exportCmd.Flags().StringVar(&exportMode, "mode", "allocation", "Export mode: allocation|loads|all|chart")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")

	_ = exportCmd.MarkFlagRequired("output")
}
