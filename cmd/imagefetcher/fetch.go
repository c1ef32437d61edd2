package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"imagefetcher/pkg/config"
	"imagefetcher/pkg/fetcher"
	"imagefetcher/pkg/logger"
	"imagefetcher/pkg/ui"
)

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("Image Fetcher starting")

	out := cmd.OutOrStdout()
	console := ui.NewConsole(out, cfg.Display.Color && isTerminal(os.Stdout))
	console.Banner()

	// The prompt only makes sense when someone is typing
	var prompt func()
	if isTerminal(os.Stdin) {
		prompt = console.Prompt
	}

	urls, err := fetcher.CollectURLs(cmd.InOrStdin(), prompt)
	if err != nil {
		log.WithError(err).Warn("Input ended early, continuing with the URLs read so far")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := fetcher.Options{
		Reporter: console,
		Logger:   log,
	}
	if cfg.Notifications.Enabled && cfg.Notifications.OnComplete {
		opts.Notifier = ui.NewNotifier()
	}

	if _, err := fetcher.New(opts).Run(ctx, urls); err != nil {
		return err
	}

	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
