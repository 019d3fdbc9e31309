package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage roomload configuration file values.",
	Long: `Create and display the roomload configuration file.

The configuration stores:
- source.url / source.refresh_interval / source.sheet
- log.level / log.format
- loads.excluded_instructors
- classify.ojt_keywords / classify.appraisal_keywords
- slots.canonical / slots.groups[].name+days+slots+highlight
- server.port`,
	Example: `
  # Create default config in $HOME/.roomload.yaml
  roomload config create

  # Show active config and source file
  roomload config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
