package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// selectors are the compiled structural patterns for one extractor.
// The site changes its DOM often; the raw strings live in config so they
// can be updated without a rebuild.
type selectors struct {
	comment       goquery.Matcher
	timestamp     goquery.Matcher
	text          goquery.Matcher
	reaction      goquery.Matcher
	link          goquery.Matcher
	timestampPath *xpath.Expr
}

func compileSelectors(cfg config.ExtractConfig) (*selectors, error) {
	s := &selectors{}

	for _, c := range []struct {
		name string
		raw  string
		dst  *goquery.Matcher
	}{
		{"comment", cfg.CommentSelector, &s.comment},
		{"timestamp", cfg.TimestampSelector, &s.timestamp},
		{"text", cfg.TextSelector, &s.text},
		{"reaction", cfg.ReactionSelector, &s.reaction},
		{"link", "a", &s.link},
	} {
		m, err := cascadia.Compile(c.raw)
		if err != nil {
			return nil, &types.SelectorError{Name: c.name, Selector: c.raw, Err: err}
		}
		*c.dst = m
	}

	expr, err := xpath.Compile(cfg.TimestampXPath)
	if err != nil {
		return nil, &types.SelectorError{Name: "timestamp_xpath", Selector: cfg.TimestampXPath, Err: err}
	}
	s.timestampPath = expr

	return s, nil
}
