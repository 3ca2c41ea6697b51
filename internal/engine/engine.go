package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/extract"
	"github.com/IshaanNene/CommentGoat/internal/observability"
	"github.com/IshaanNene/CommentGoat/internal/pipeline"
	"github.com/IshaanNene/CommentGoat/internal/snapshot"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Storage is the interface for storage backends.
type Storage interface {
	Store(pass *types.Pass) error
	Close() error
}

// Engine runs extraction passes: snapshot in, records out. Each snapshot
// gets its own independent pass.
type Engine struct {
	cfg       *config.Config
	log       *slog.Logger
	logger    *slog.Logger
	extractor *extract.Extractor
	loader    *snapshot.Loader
	pipeline  *pipeline.Pipeline
	storage   Storage
	metrics   *observability.Metrics
	mu        sync.Mutex
}

// New creates a new Engine with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	x, err := extract.New(cfg.Extract, logger)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.FromConfig(cfg.Pipeline, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		log:       logger,
		logger:    logger.With("component", "engine"),
		extractor: x,
		loader:    snapshot.NewLoader(cfg.Snapshot, logger),
		pipeline:  p,
		metrics:   observability.NewMetrics(logger),
	}, nil
}

// SetStorage sets the storage implementation. Without one, passes are
// returned but not persisted.
func (e *Engine) SetStorage(s Storage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.storage = s
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Loader returns the snapshot loader used for file and stream input.
func (e *Engine) Loader() *snapshot.Loader {
	return e.loader
}

// Extract runs one pass over snap without post-processing or storage.
func (e *Engine) Extract(snap *types.Snapshot) (*types.Pass, error) {
	res, err := e.extractor.ExtractSnapshot(snap)
	if err != nil {
		e.metrics.PassesFailed.Add(1)
		return nil, err
	}
	e.metrics.RecordPass(res.Stats)
	e.metrics.SnapshotBytes.Add(int64(len(snap.Body)))

	return &types.Pass{
		ID:          uuid.NewString(),
		Source:      snap.Source,
		ExtractedAt: time.Now(),
		Found:       res.Stats.Found,
		Records:     res.Records,
	}, nil
}

// Finish runs the record pipeline over pass and hands it to storage.
// Passes must be finished in a stable order for deduplication to be
// deterministic.
func (e *Engine) Finish(pass *types.Pass) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finish(pass, e.pipeline)
}

func (e *Engine) finish(pass *types.Pass, p *pipeline.Pipeline) error {
	before := len(pass.Records)
	records, err := p.Run(pass.Records)
	if err != nil {
		return err
	}
	pass.Records = records
	e.metrics.RecordsDropped.Add(int64(before - len(records)))

	if e.storage == nil {
		return nil
	}
	if err := e.storage.Store(pass); err != nil {
		return err
	}
	e.metrics.RecordsStored.Add(int64(len(records)))
	return nil
}

// RunSnapshot extracts and finishes a single snapshot.
func (e *Engine) RunSnapshot(snap *types.Snapshot) (*types.Pass, error) {
	pass, err := e.Extract(snap)
	if err != nil {
		return nil, err
	}
	if err := e.Finish(pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// RunIsolated extracts and finishes snap with a pipeline of its own, so no
// dedup state is shared with earlier passes. The API serves each request
// this way.
func (e *Engine) RunIsolated(snap *types.Snapshot) (*types.Pass, error) {
	pass, err := e.Extract(snap)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.FromConfig(e.cfg.Pipeline, e.log)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.finish(pass, p); err != nil {
		return nil, err
	}
	return pass, nil
}

// RunFiles loads and extracts every path in parallel, bounded by the
// configured concurrency, then finishes the passes in input order. A path
// that cannot be loaded is logged and skipped; the joined errors are
// returned after the remaining passes are done.
func (e *Engine) RunFiles(ctx context.Context, paths []string) ([]*types.Pass, error) {
	e.logger.Info("engine starting", "snapshots", len(paths), "concurrency", e.cfg.Concurrency)
	start := time.Now()

	passes := make([]*types.Pass, len(paths))
	loadErrs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Concurrency, 1))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap, err := e.loader.LoadFile(path)
			if err != nil {
				e.metrics.PassesFailed.Add(1)
				e.logger.Error("snapshot load failed", "path", path, "error", err)
				loadErrs[i] = err
				return nil
			}
			pass, err := e.Extract(snap)
			if err != nil {
				e.logger.Error("extraction failed", "path", path, "error", err)
				loadErrs[i] = err
				return nil
			}
			passes[i] = pass
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	done := make([]*types.Pass, 0, len(passes))
	for _, pass := range passes {
		if pass == nil {
			continue
		}
		if err := e.Finish(pass); err != nil {
			return done, fmt.Errorf("finish %s: %w", pass.Source, err)
		}
		done = append(done, pass)
	}

	e.logger.Info("engine stopped",
		"passes", len(done),
		"failed", len(paths)-len(done),
		"elapsed", time.Since(start),
	)
	return done, errors.Join(loadErrs...)
}
