package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"imagefetcher/pkg/config"
	"imagefetcher/pkg/ui"
)

// defaultConfigPath is where config init writes when --config is not given
const defaultConfigPath = ".imagefetcher.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Image Fetcher configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IMAGEFETCHER_*, NO_COLOR, also read from .env)
  - Configuration file
  - Default values (lowest priority)

The output directory, request timeout, user agent and size limit are fixed.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.imagefetcher.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging flags, environment
variables, the configuration file and defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Log level
  - Log file path`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# Image Fetcher Configuration File
#
# Environment variables override this file:
#   IMAGEFETCHER_LOG_LEVEL, IMAGEFETCHER_LOG_FILE,
#   IMAGEFETCHER_NOTIFICATIONS_ENABLED, IMAGEFETCHER_COLOR, NO_COLOR

# Logging configuration (logs go to stderr, status lines to stdout)
logging:
  # Log level: debug, info, warn, error, disabled
  level: "error"

  # Also append logs to this file (optional)
  file: ""

# Desktop notifications
notifications:
  enabled: false

  # Notify when a session finishes
  on_complete: true

# Terminal output
display:
  # Color status lines when stdout is a terminal
  color: true
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	console := ui.NewConsole(out, !noColor)

	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		console.PrintError("Configuration file already exists", configPath)
		fmt.Fprintln(out, "\nTo overwrite, first remove the existing file:")
		fmt.Fprintf(out, "  rm %s\n", configPath)
		return fmt.Errorf("configuration file %s already exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	console.PrintInfo("Configuration file created", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Edit the configuration file")
	fmt.Fprintln(out, "2. Run 'imagefetcher config validate' to check it")
	fmt.Fprintln(out, "3. Run 'imagefetcher' and paste some image URLs")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	console := ui.NewConsole(out, cfg.Display.Color && !noColor)
	console.PrintInfo("Current Configuration", "")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (IMAGEFETCHER_*)")
	if configFile != "" {
		fmt.Fprintf(out, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "3. Configuration file: (searched default locations)")
	}
	fmt.Fprintln(out, "4. Default values")

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	console := ui.NewConsole(out, !noColor)

	path := configFile
	if path == "" {
		path = config.FindConfigFile()
		if path == "" {
			console.PrintError("No configuration file found", "Specify a file with --config flag")
			return fmt.Errorf("no configuration file found")
		}
	}

	console.PrintInfo("Validating configuration", path)

	cfg, err := config.Load(path, nil)
	if err != nil {
		console.PrintError("Configuration validation failed", err.Error())
		return err
	}

	fmt.Fprintln(out, "Configuration is valid")
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fmt.Fprintf(out, "  Log file: %s\n", cfg.Logging.File)
	}
	fmt.Fprintf(out, "  Notifications: %t\n", cfg.Notifications.Enabled)
	fmt.Fprintf(out, "  Color: %t\n", cfg.Display.Color)

	return nil
}
