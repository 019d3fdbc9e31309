package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomload/importer"
	"roomload/storage"
)

var (
	importInputs []string
	importFormat string
	importSheet  string
	importDBPath string
	importClear  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Stage CSV/Excel schedule rows in a local SQLite database",
	Long: `Read schedule files and store their raw rows in SQLite.

Only source rows are stored; the occupancy grid and loads are computed from
them by "allocation", "loads", "export" and "serve".
Re-importing a file replaces the rows previously stored for that file.
When --format is omitted, format is inferred from each input file extension.
Excel workbooks are read from the sheet named by --sheet (default "DATABASE"),
falling back to the first sheet.`,
	Example: `
  # Stage a schedule workbook
  roomload import -i ./schedule.xlsx --db ./roomload.db

  # Stage several CSV exports, dropping everything staged before
  roomload import -i ./first-sem.csv -i ./annex.csv --clear
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := importer.Run(importInputs, importer.RunOptions{Format: importFormat, Sheet: importSheet})
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if importClear {
			deleted, err := store.DeleteAllRows()
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d previously stored rows.\n", deleted)
		}

		persisted := 0
		for _, file := range result.Files {
			inserted, err := store.ReplaceSourceRows(file.Path, file.Rows)
			if err != nil {
				return err
			}
			persisted += inserted
		}

		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			persisted,
		)

		sources, err := store.ListSources()
		if err != nil {
			return err
		}
		for _, source := range sources {
			fmt.Printf("  %s: %d rows (imported %s)\n", source.File, source.Rows, source.ImportedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importSheet, "sheet", importer.DefaultSheet, "Preferred Excel sheet name")
	importCmd.Flags().StringVar(&importDBPath, "db", defaultDBPath, "Path to local SQLite database")
	importCmd.Flags().BoolVar(&importClear, "clear", false, "Delete all stored rows before importing")

	_ = importCmd.MarkFlagRequired("input")
}
