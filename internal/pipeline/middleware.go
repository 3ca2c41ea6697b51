package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

// DedupMiddleware drops records whose id has already been seen. One instance
// is shared by every pass of a run, so a comment captured in two snapshots
// is only kept once. Placeholder ids are local to their pass and never
// deduplicated.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{
		seen: make(map[string]struct{}),
	}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(rec *types.CommentRecord) (*types.CommentRecord, error) {
	if rec.HasPlaceholderID() {
		return rec, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[rec.ID]; exists {
		return nil, nil
	}
	m.seen[rec.ID] = struct{}{}
	return rec, nil
}

// NormalizeTextMiddleware applies NFKC normalization to the body text and
// collapses runs of whitespace. Records left without text are dropped.
type NormalizeTextMiddleware struct{}

func (m *NormalizeTextMiddleware) Name() string { return "normalize_text" }

func (m *NormalizeTextMiddleware) Process(rec *types.CommentRecord) (*types.CommentRecord, error) {
	text := strings.Join(strings.Fields(norm.NFKC.String(rec.Text)), " ")
	if text == "" {
		return nil, nil
	}
	rec.Text = text
	return rec, nil
}

// TypeFilterMiddleware keeps only records of the listed comment types.
type TypeFilterMiddleware struct {
	types map[types.CommentType]bool
}

func NewTypeFilterMiddleware(names []string) (*TypeFilterMiddleware, error) {
	m := &TypeFilterMiddleware{types: make(map[types.CommentType]bool, len(names))}
	for _, name := range names {
		ct, err := types.ParseCommentType(name)
		if err != nil {
			return nil, fmt.Errorf("type filter: %w", err)
		}
		m.types[ct] = true
	}
	return m, nil
}

func (m *TypeFilterMiddleware) Name() string { return "type_filter" }

func (m *TypeFilterMiddleware) Process(rec *types.CommentRecord) (*types.CommentRecord, error) {
	if !m.types[rec.CommentType] {
		return nil, nil
	}
	return rec, nil
}

// MinReactionsMiddleware drops records with fewer than Min reactions.
type MinReactionsMiddleware struct {
	Min int
}

func (m *MinReactionsMiddleware) Name() string { return "min_reactions" }

func (m *MinReactionsMiddleware) Process(rec *types.CommentRecord) (*types.CommentRecord, error) {
	if rec.ReactionCount < m.Min {
		return nil, nil
	}
	return rec, nil
}
