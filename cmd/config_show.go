package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roomload/config"
	"roomload/internal/timeutil"
	"roomload/schedule"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration, the resolved config file path,
and the time slots each weekday is bucketed into.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  roomload config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		if err := printConfig(os.Stdout, cfg); err != nil {
			fmt.Println("Invalid config:", err)
		}
	},
}

func printConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "source.url: %s\n", cfg.Source.URL)
	fmt.Fprintf(w, "source.refresh_interval: %s\n", cfg.Source.RefreshInterval)
	fmt.Fprintf(w, "source.sheet: %s\n", cfg.Source.Sheet)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format: %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "loads.excluded_instructors: %s\n", strings.Join(cfg.Loads.ExcludedInstructors, "; "))
	fmt.Fprintf(w, "classify.ojt_keywords: %s\n", strings.Join(cfg.Classify.OJTKeywords, "; "))
	fmt.Fprintf(w, "classify.appraisal_keywords: %s\n", strings.Join(cfg.Classify.AppraisalKeywords, "; "))
	fmt.Fprintf(w, "slots.canonical: %t\n", cfg.Slots.Canonical)
	fmt.Fprintf(w, "slots.groups: %d\n", len(cfg.Slots.Groups))
	for i, group := range cfg.Slots.Groups {
		fmt.Fprintf(w, "slots.groups[%d].name: %s\n", i, group.Name)
		fmt.Fprintf(w, "slots.groups[%d].days: %s\n", i, group.Days)
		fmt.Fprintf(w, "slots.groups[%d].slots: %d\n", i, len(group.Slots))
		fmt.Fprintf(w, "slots.groups[%d].highlight: %d\n", i, group.Highlight)
	}
	fmt.Fprintf(w, "server.port: %d\n", cfg.Server.Port)

	patterns, err := cfg.SlotPatterns()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Time slots:")
	for _, day := range schedule.WeekOrder {
		slots := patterns[day]
		if len(slots) == 0 {
			fmt.Fprintf(w, "  %s: derived from the schedule\n", day)
			continue
		}
		fmt.Fprintf(w, "  %s: %d slots, %s to %s\n", day, len(slots), timeutil.FormatClock(slots[0].Start), timeutil.FormatClock(slots[len(slots)-1].End))
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
