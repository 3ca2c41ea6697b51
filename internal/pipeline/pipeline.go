package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Middleware processes a record and returns the (possibly modified) record.
// Return nil to drop the record from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a record. Return nil to drop the record.
	Process(rec *types.CommentRecord) (*types.CommentRecord, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromConfig builds the pipeline described by cfg. The order is fixed:
// normalization runs before the filters so they see the final text, and
// dedup runs last so dropped records never claim an id.
func FromConfig(cfg config.PipelineConfig, logger *slog.Logger) (*Pipeline, error) {
	p := New(logger)
	if cfg.NormalizeText {
		p.Use(&NormalizeTextMiddleware{})
	}
	if len(cfg.Types) > 0 {
		mw, err := NewTypeFilterMiddleware(cfg.Types)
		if err != nil {
			return nil, err
		}
		p.Use(mw)
	}
	if cfg.MinReactions > 0 {
		p.Use(&MinReactionsMiddleware{Min: cfg.MinReactions})
	}
	if cfg.Dedup {
		p.Use(NewDedupMiddleware())
	}
	return p, nil
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order.
func (p *Pipeline) Process(rec *types.CommentRecord) (*types.CommentRecord, error) {
	current := rec

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:    mw.Name(),
				RecordID: current.ID,
				Err:      err,
			}
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", mw.Name(), "id", rec.ID)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Run processes every record of a pass, preserving order. The returned
// slice is never nil.
func (p *Pipeline) Run(records []types.CommentRecord) ([]types.CommentRecord, error) {
	out := make([]types.CommentRecord, 0, len(records))
	if len(p.middlewares) == 0 {
		return append(out, records...), nil
	}

	for i := range records {
		rec := records[i]
		result, err := p.Process(&rec)
		if err != nil {
			return nil, err
		}
		if result != nil {
			out = append(out, *result)
		}
	}
	if dropped := len(records) - len(out); dropped > 0 {
		p.logger.Info("records dropped by pipeline", "dropped", dropped, "kept", len(out))
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
