package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/engine"
	"github.com/IshaanNene/CommentGoat/internal/storage"
)

type outputFlags struct {
	path       string
	format     string
	dedup      bool
	normalize  bool
	types      []string
	minReact   int
	maxDepth   int
	concurrent int
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "output", "o", "", `output file path ("-" = stdout)`)
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: json, jsonl, csv, markdown, mongodb, sqlite")
	cmd.Flags().BoolVar(&f.dedup, "dedup", false, "drop records whose id was already seen")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "NFKC-normalize text and collapse whitespace")
	cmd.Flags().StringSliceVar(&f.types, "types", nil, "keep only these comment types (initial, reply, unknown)")
	cmd.Flags().IntVar(&f.minReact, "min-reactions", 0, "drop records with fewer reactions")
	cmd.Flags().IntVar(&f.maxDepth, "max-parent-depth", -1, "cap the ancestor walk when resolving parents (0 = unbounded)")
	cmd.Flags().IntVarP(&f.concurrent, "concurrency", "n", 0, "snapshot files processed in parallel")
}

// apply copies the flags the user set onto cfg.
func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if f.path != "" {
		cfg.Storage.OutputPath = f.path
	}
	if f.format != "" {
		cfg.Storage.Type = strings.ToLower(f.format)
	}
	if cmd.Flags().Changed("dedup") {
		cfg.Pipeline.Dedup = f.dedup
	}
	if cmd.Flags().Changed("normalize") {
		cfg.Pipeline.NormalizeText = f.normalize
	}
	if len(f.types) > 0 {
		cfg.Pipeline.Types = f.types
	}
	if f.minReact > 0 {
		cfg.Pipeline.MinReactions = f.minReact
	}
	if f.maxDepth >= 0 {
		cfg.Extract.MaxParentDepth = f.maxDepth
	}
	if f.concurrent > 0 {
		cfg.Concurrency = f.concurrent
	}
}

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	flags := &outputFlags{}
	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract comments from saved pages",
		Long: `Extract comments from one or more saved pages. Each file is an independent
pass. Files ending in .gz or .br are decompressed; "-" or no argument reads stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			cfg, err := loadConfig(func(cfg *config.Config) { flags.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func runExtract(ctx context.Context, cfg *config.Config, paths []string) error {
	logger := setupLogger(cfg.Logging)

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	eng.SetStorage(store)

	ctx, stop := signal.NotifyContext(contextOrBackground(ctx), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	passes, runErr := eng.RunFiles(ctx, paths)
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	eng.Metrics().LogSummary()

	stats := eng.Metrics().Snapshot()
	fmt.Fprintf(os.Stderr, "\n✅ Extraction complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "   Passes:    %d ok, %d failed\n", len(passes), stats["passes_failed"])
	fmt.Fprintf(os.Stderr, "   Comments:  %d found, %d extracted, %d stored\n",
		stats["containers_found"], stats["records_extracted"], stats["records_stored"])
	fmt.Fprintf(os.Stderr, "   Output:    %s (%s)\n", outputName(cfg.Storage), store.Name())

	if stats["records_extracted"] == 0 && len(passes) > 0 {
		fmt.Fprintln(os.Stderr, "\n💡 No comments extracted. Selectors might need updating, or comments were not loaded.")
		fmt.Fprintln(os.Stderr, "   Expand the thread in the browser before saving, or adjust extract.* in the config.")
	}

	return runErr
}

func outputName(cfg config.StorageConfig) string {
	switch cfg.Type {
	case "mongodb":
		return cfg.MongoDatabase + "." + cfg.MongoCollection
	case "sqlite":
		return cfg.SQLitePath
	}
	if cfg.OutputPath == "" || cfg.OutputPath == storage.StdoutPath {
		return "stdout"
	}
	return cfg.OutputPath
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
