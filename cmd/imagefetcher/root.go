package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	noColor       bool
	notifications bool
	verbose       bool
)

// rootCmd runs a fetch session when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imagefetcher",
	Short: "Download a list of image URLs into Fetched_Images",
	Long: `Image Fetcher reads image URLs from standard input, one per line, until a
blank line. Each URL is fetched in order and saved into the Fetched_Images
directory when it is an image of at most 10MB whose content has not already
been saved in this session.

Every URL gets one status line and the session ends with a summary.`,
	Example: `  # Type or paste URLs, finish with an empty line
  imagefetcher

  # Feed URLs from a file
  imagefetcher < urls.txt

  # Show debug logs on stderr and notify when done
  imagefetcher --verbose --notifications`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .imagefetcher.yaml or ~/.config/imagefetcher/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", false, "send a desktop notification when the session ends")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request and outcome (same as --log-level debug)")

	// Version template
	rootCmd.SetVersionTemplate(`Image Fetcher {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandLineFlags returns the flags the user set explicitly, keyed the way
// config.MergeCommandLineFlags expects them
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if verbose {
		flags["log-level"] = "debug"
	}
	if cmd.Flags().Changed("notifications") {
		flags["notifications"] = notifications
	}
	if noColor {
		flags["no-color"] = true
	}

	return flags
}
