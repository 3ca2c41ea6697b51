package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/engine"
	"github.com/IshaanNene/CommentGoat/internal/snapshot"
	"github.com/IshaanNene/CommentGoat/internal/storage"
)

// captureCmd creates the "capture" subcommand.
func captureCmd() *cobra.Command {
	var browserURL, pageMatch string
	flags := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Extract comments from a tab in a running browser",
		Long: `Attach to a browser started with --remote-debugging-port and extract the
comments of the first open tab whose URL contains --page-match. The tab is read
as-is: expand the thread yourself before capturing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) {
				flags.apply(cmd, cfg)
				if browserURL != "" {
					cfg.Snapshot.BrowserURL = browserURL
				}
				if pageMatch != "" {
					cfg.Snapshot.PageMatch = pageMatch
				}
			})
			if err != nil {
				return err
			}
			if cfg.Snapshot.BrowserURL == "" {
				return fmt.Errorf("a browser is required: pass --browser-url or set snapshot.browser_url")
			}
			return runCapture(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&browserURL, "browser-url", "", "DevTools URL of the running browser (ws://... or http://host:port)")
	cmd.Flags().StringVar(&pageMatch, "page-match", "", "substring the tab URL must contain")
	flags.register(cmd)
	return cmd
}

func runCapture(cmd *cobra.Command, cfg *config.Config) error {
	logger := setupLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := snapshot.NewCapturer(cfg.Snapshot, logger).Capture(ctx)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	eng.SetStorage(store)

	pass, runErr := eng.RunSnapshot(snap)
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(os.Stderr, "\n✅ Captured %s\n", snap.Source)
	fmt.Fprintf(os.Stderr, "   Comments:  %d found, %d stored\n", pass.Found, len(pass.Records))
	fmt.Fprintf(os.Stderr, "   Run ID:    %s\n", pass.ID)
	fmt.Fprintf(os.Stderr, "   Output:    %s (%s)\n", outputName(cfg.Storage), store.Name())
	return nil
}
