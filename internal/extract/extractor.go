package extract

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Extractor turns comment containers into CommentRecords. It holds only
// configuration; every pass works on the tree it is given and keeps no
// reference to it afterwards, so one Extractor may run passes concurrently.
type Extractor struct {
	sel            *selectors
	base           *url.URL
	labelAttr      string
	maxParentDepth int
	logger         *slog.Logger
}

// New creates an Extractor from the structural patterns in cfg.
func New(cfg config.ExtractConfig, logger *slog.Logger) (*Extractor, error) {
	sel, err := compileSelectors(cfg)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	return &Extractor{
		sel:            sel,
		base:           base,
		labelAttr:      cfg.LabelAttribute,
		maxParentDepth: cfg.MaxParentDepth,
		logger:         logger.With("component", "extractor"),
	}, nil
}

// Stats summarizes one extraction pass.
type Stats struct {
	Found            int `json:"found"`
	Extracted        int `json:"extracted"`
	SkippedNoText    int `json:"skipped_no_text"`
	MissingID        int `json:"missing_id"`
	UnknownType      int `json:"unknown_type"`
	Replies          int `json:"replies"`
	ParentsByAuthor  int `json:"parents_by_author"`
	ParentsByNearest int `json:"parents_by_nearest"`
	ParentsMissing   int `json:"parents_missing"`
}

// Result is the output of one pass.
type Result struct {
	Records []types.CommentRecord
	Stats   Stats
}

// outcome describes what happened to one container.
type outcome struct {
	emitted   bool
	missingID bool
	kind      types.CommentType
	parent    parentSource
}

func (s *Stats) add(o outcome) {
	if !o.emitted {
		s.SkippedNoText++
		return
	}
	s.Extracted++
	if o.missingID {
		s.MissingID++
	}
	switch o.kind {
	case types.CommentUnknown:
		s.UnknownType++
	case types.CommentReply:
		s.Replies++
		switch o.parent {
		case parentByAuthor:
			s.ParentsByAuthor++
		case parentByNearest:
			s.ParentsByNearest++
		default:
			s.ParentsMissing++
		}
	}
}

// ExtractSnapshot parses the snapshot and runs one pass over it.
func (x *Extractor) ExtractSnapshot(snap *types.Snapshot) (*Result, error) {
	doc, err := snap.Document()
	if err != nil {
		return nil, err
	}
	return x.Extract(doc.Selection), nil
}

// Extract runs one pass over every comment container below root.
func (x *Extractor) Extract(root *goquery.Selection) *Result {
	containers := root.FindMatcher(x.sel.comment)
	res := &Result{Records: make([]types.CommentRecord, 0, containers.Length())}
	res.Stats.Found = containers.Length()
	x.logger.Info("comment containers found", "count", res.Stats.Found)

	containers.Each(func(i int, container *goquery.Selection) {
		rec, out := x.record(i, container)
		res.Stats.add(out)
		if out.emitted {
			res.Records = append(res.Records, rec)
		}
	})

	if len(res.Records) == 0 {
		x.logger.Info("no comments extracted; selectors might need updating, or comments were not loaded",
			"found", res.Stats.Found)
		return res
	}
	x.logger.Info("extraction complete",
		"extracted", res.Stats.Extracted,
		"found", res.Stats.Found,
		"replies", res.Stats.Replies,
		"parents_missing", res.Stats.ParentsMissing,
	)
	return res
}

// record builds the record for the container at index. The record is only
// meaningful when the outcome reports it as emitted, which happens exactly
// when the container yields non-empty body text.
func (x *Extractor) record(index int, container *goquery.Selection) (types.CommentRecord, outcome) {
	body, hasText := x.selectText(container)
	kind := x.classify(container)
	out := outcome{kind: kind}

	id, hasID := x.commentID(container)
	if !hasID {
		x.logger.Warn("failed to extract comment id", "index", index)
		id = types.MissingID(index)
		out.missingID = true
	}

	text := body.text
	if hasText && kind == types.CommentReply {
		if stripped := stripReplyTag(text, body.node); stripped != text {
			x.logger.Debug("removed leading tag from reply", "id", id)
			text = stripped
		}
	}
	if text == "" {
		x.logger.Warn("could not extract comment text", "index", index, "id", id)
		return types.CommentRecord{}, out
	}
	out.emitted = true

	rec := types.CommentRecord{
		ID:            id,
		Text:          text,
		ReactionCount: x.reactionCount(container),
		CommentType:   kind,
	}

	if kind == types.CommentReply {
		match := x.resolveParent(container)
		out.parent = match.source
		if match.source == parentNotFound {
			x.logger.Warn("could not find parent for reply", "id", id)
		} else {
			rec.ParentID = &match.id
		}
	}

	ts, ok := x.timestampText(container)
	if !ok {
		x.logger.Warn("timestamp text not found", "index", index, "id", id)
	}
	rec.TimestampText = ts

	x.logger.Debug("comment added",
		"index", index,
		"type", kind,
		"parent_id", rec.Parent(),
		"parent_source", out.parent,
		"reactions", rec.ReactionCount,
		"id", id,
	)
	return rec, out
}
