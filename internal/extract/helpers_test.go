package extract

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/CommentGoat/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	x, err := New(config.DefaultConfig().Extract, testLogger)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	return x
}

func parseDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed parsing test html: %v", err)
	}
	return doc
}

// find returns the single element matching selector in body.
func find(t *testing.T, body, selector string) *goquery.Selection {
	t.Helper()
	sel := parseDoc(t, body).Find(selector)
	if sel.Length() != 1 {
		t.Fatalf("selector %q matched %d nodes, want 1", selector, sel.Length())
	}
	return sel
}
