package types

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is one captured copy of a comment thread page.
type Snapshot struct {
	// Source names where the snapshot came from (file path, tab URL, "api").
	Source string

	// URL is the page URL, when known.
	URL string

	// Body is the raw, decoded HTML.
	Body []byte

	// CapturedAt is when the snapshot was read.
	CapturedAt time.Time

	// Doc is a parsed goquery document (lazily loaded).
	Doc *goquery.Document
}

// NewSnapshot creates a Snapshot from decoded HTML.
func NewSnapshot(source string, body []byte) *Snapshot {
	return &Snapshot{
		Source:     source,
		Body:       body,
		CapturedAt: time.Now(),
	}
}

// Document returns a parsed goquery document, lazily initializing it.
func (s *Snapshot) Document() (*goquery.Document, error) {
	if s.Doc != nil {
		return s.Doc, nil
	}
	if len(bytes.TrimSpace(s.Body)) == 0 {
		return nil, &SnapshotError{Source: s.Source, Err: ErrEmptySnapshot}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.Body))
	if err != nil {
		return nil, &SnapshotError{Source: s.Source, Err: err}
	}
	s.Doc = doc
	return doc, nil
}
