/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roomload/config"
)

const defaultConfigName = ".roomload"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomload",
	Short: "Build room occupancy grids and instructor teaching loads from class schedules.",
	Long: `
**********************************************
*                 ROOMLOAD                   *
**********************************************

This CLI reads class-schedule rows (Excel, CSV, or a published sheet URL),
normalizes them into meetings, and derives two views:
- a room occupancy grid per weekday and time slot
- a teaching-load summary per instructor

Rows can be staged in a local SQLite database with "import" and reused by the
other commands via --db.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls (sheet "DATABASE" preferred, else the first sheet)
- CSV: .csv
`,
	Example: `
  # Create configuration file
  roomload config create

  # Stage a schedule workbook in the local database
  roomload import -i ./schedule.xlsx

  # Print slot occupancy per day from the staged rows
  roomload allocation

  # Print teaching loads straight from a CSV file
  roomload loads -i ./schedule.csv

  # Export the occupancy grid to Excel
  roomload export --mode allocation --output ./occupancy.xlsx

  # Serve the web view, refreshing from a published sheet every minute
  roomload serve --url https://example.org/schedule.csv
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.roomload.yaml, then ./.roomload.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

// requiresConfig reports whether cmd builds views and therefore needs a valid
// configuration before it runs.
func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "allocation", "loads", "export", "serve":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(defaultConfigName)
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: roomload config create")
	}
}
