package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/CommentGoat/internal/api"
	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/engine"
	"github.com/IshaanNene/CommentGoat/internal/storage"
)

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	var (
		port    int
		persist bool
	)
	flags := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction API server",
		Long: `Serve POST /api/extract: the request body is an HTML page (optionally
gzip, deflate or br encoded) and the response is its comment records as JSON.
With --persist, every pass is also written to the configured storage, which
must be a streaming backend (jsonl, csv, sqlite, mongodb).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) {
				flags.apply(cmd, cfg)
				if port > 0 {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.Logging)

			eng, err := engine.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}
			if persist {
				if storage.Buffered(cfg.Storage.Type) {
					return fmt.Errorf("--persist needs a streaming backend (jsonl, csv, sqlite, mongodb); %s buffers every record until shutdown", cfg.Storage.Type)
				}
				store, err := storage.New(cfg.Storage, logger)
				if err != nil {
					return fmt.Errorf("create storage: %w", err)
				}
				defer store.Close()
				eng.SetStorage(store)
			}

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(cfg, eng, logger)
			err = srv.ListenAndServe(ctx)
			eng.Metrics().LogSummary()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from server.port)")
	cmd.Flags().BoolVar(&persist, "persist", false, "also store every pass in the configured storage")
	flags.register(cmd)
	return cmd
}
