package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roomload/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Write the example configuration (canonical time slots, default instructor
exclusions, JSON logging) to --configFile, or $HOME/.roomload.yaml.

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.roomload.yaml
  roomload config create

  # Create a project-local config
  roomload --configFile ./.roomload.yaml config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig()
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := writeExampleConfig(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

// resolveConfigPath picks the --configFile flag, then the file viper loaded,
// then $HOME/.roomload.yaml.
func resolveConfigPath(flagPath, loadedPath string) (string, error) {
	for _, candidate := range []string{flagPath, loadedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName+".yaml"), nil
}

// writeExampleConfig writes the example template unless path exists and
// reports whether it created the file.
func writeExampleConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
