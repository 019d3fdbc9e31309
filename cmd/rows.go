package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"roomload/config"
	"roomload/importer"
	"roomload/refresh"
	"roomload/remote"
	"roomload/schedule"
	"roomload/storage"
)

const (
	defaultDBPath    = "./roomload.db"
	remoteUserAgent  = "roomload/1.0"
	rowSourceFlagsDB = "db"
)

// rowSourceFlags selects where schedule rows come from. Input files win over
// --url, which wins over the row store; the configured source.url is the last
// resort.
type rowSourceFlags struct {
	inputs []string
	format string
	sheet  string
	dbPath string
	url    string
}

// register adds the source flags to cmd. formatFlag names the input format
// flag so commands with their own output format can rename it.
func (f *rowSourceFlags) register(cmd *cobra.Command, formatFlag string) {
	cmd.Flags().StringArrayVarP(&f.inputs, "input", "i", nil, "Input file path (repeatable)")
	cmd.Flags().StringVar(&f.format, formatFlag, "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Preferred Excel sheet (default: source.sheet from config)")
	cmd.Flags().StringVar(&f.dbPath, rowSourceFlagsDB, defaultDBPath, "Path to local SQLite database with imported rows")
	cmd.Flags().StringVar(&f.url, "url", "", "Published CSV export URL (overrides source.url from config)")
}

type rowOrigin struct {
	source refresh.Source
	live   bool
	label  string
}

func resolveRowOrigin(cmd *cobra.Command, flags *rowSourceFlags, cfg *config.Config) (rowOrigin, error) {
	dbRequested := cmd != nil && cmd.Flags().Changed(rowSourceFlagsDB)
	return selectRowOrigin(flags, cfg, dbRequested)
}

func selectRowOrigin(flags *rowSourceFlags, cfg *config.Config, dbRequested bool) (rowOrigin, error) {
	switch {
	case len(flags.inputs) > 0:
		sheet := strings.TrimSpace(flags.sheet)
		if sheet == "" {
			sheet = cfg.Source.Sheet
		}
		result, err := importer.Run(flags.inputs, importer.RunOptions{Format: flags.format, Sheet: sheet})
		if err != nil {
			return rowOrigin{}, err
		}
		return rowOrigin{
			source: refresh.StaticRows(result.Rows()),
			label:  fmt.Sprintf("%d file(s)", result.FilesProcessed),
		}, nil
	case strings.TrimSpace(flags.url) != "":
		return remoteOrigin(flags.url)
	case dbRequested || fileExists(flags.dbPath):
		return rowOrigin{source: storeSource(flags.dbPath), label: flags.dbPath}, nil
	case strings.TrimSpace(cfg.Source.URL) != "":
		return remoteOrigin(cfg.Source.URL)
	}
	return rowOrigin{}, errors.New("no schedule rows: pass --input, --db or --url, or set source.url in the config")
}

func remoteOrigin(rawURL string) (rowOrigin, error) {
	client, err := remote.NewClient(remote.ClientConfig{URL: rawURL, UserAgent: remoteUserAgent})
	if err != nil {
		return rowOrigin{}, err
	}
	return rowOrigin{source: client, live: true, label: client.URL()}, nil
}

// storeSource reads the staged rows on every fetch so a running server sees
// later imports on refresh.
func storeSource(path string) refresh.Source {
	return refresh.SourceFunc(func(context.Context) ([]schedule.Row, error) {
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		rows, err := store.ListRows()
		if errors.Is(err, storage.ErrRowsNotFound) {
			return nil, fmt.Errorf("%w in %s, run \"roomload import\" first", err, path)
		}
		return rows, err
	})
}

func buildOptions(cfg *config.Config) (refresh.BuildOptions, error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return refresh.BuildOptions{}, err
	}
	patterns, err := cfg.SlotPatterns()
	if err != nil {
		return refresh.BuildOptions{}, err
	}
	return refresh.BuildOptions{
		Classifier: classifier,
		Patterns:   patterns,
		Loads:      cfg.LoadOptions(),
	}, nil
}

// loadSnapshot performs one build from the selected rows for the one-shot
// commands.
func loadSnapshot(cmd *cobra.Command, flags *rowSourceFlags) (*refresh.Snapshot, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}
	origin, err := resolveRowOrigin(cmd, flags, cfg)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := origin.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := refresh.Build(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("build views from %s (%d rows): %w", origin.label, len(rows), err)
	}
	snapshot.BuiltAt = time.Now()
	snapshot.Live = origin.live
	return snapshot, nil
}

func printSkipped(report schedule.NormalizeReport) {
	if report.RowsSkipped() == 0 {
		return
	}
	fmt.Printf("Rows skipped: %d\n", report.RowsSkipped())
	byReason := report.SkippedByReason()
	for _, reason := range slices.Sorted(maps.Keys(byReason)) {
		fmt.Printf("  %s: %d\n", reason, byReason[reason])
	}
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
