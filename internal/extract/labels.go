package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Label phrasing is not under our control. Every value read from a label is
// best effort and callers must handle the miss.
const (
	replyLabelPrefix   = "Reply by"
	commentLabelPrefix = "Comment by"
)

var (
	// "Comment by Jane Doe 3 hours ago", "Reply by Jane Doe to John's comment 2d"
	authorPattern = regexp.MustCompile(`(?i)^(?:Comment|Reply) by (.*?)(?: to | \d+\s*[hmsdw]| yesterday| just now)`)

	// "... to John Doe's comment", "... responding to John Doe"
	targetAuthorPattern = regexp.MustCompile(`(?i)(?:\s+to|responding to)\s+(.*?)(?:'s|’s|$)`)
)

// classifyLabel maps a container label to a comment type. Unrecognized
// labels, including the empty label, are unknown.
func classifyLabel(label string) types.CommentType {
	switch {
	case strings.HasPrefix(label, replyLabelPrefix):
		return types.CommentReply
	case strings.HasPrefix(label, commentLabelPrefix):
		return types.CommentInitial
	default:
		return types.CommentUnknown
	}
}

// classify reads the container's own label, not a descendant's.
func (x *Extractor) classify(container *goquery.Selection) types.CommentType {
	return classifyLabel(x.label(container))
}

// authorFromLabel extracts the author of a comment or reply.
func authorFromLabel(label string) (string, bool) {
	return firstGroup(authorPattern, label)
}

// targetAuthorFromReplyLabel extracts the name of the user a reply answers.
func targetAuthorFromReplyLabel(label string) (string, bool) {
	return firstGroup(targetAuthorPattern, label)
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// authorOf extracts the author from a candidate container's label.
func (x *Extractor) authorOf(container *goquery.Selection) (string, bool) {
	label := x.label(container)
	author, ok := authorFromLabel(label)
	if !ok {
		x.logger.Warn("could not extract author from label", "label", label)
	}
	return author, ok
}

// sameAuthor compares names under full Unicode case folding.
func sameAuthor(a, b string) bool {
	// a Caser is stateful; one per call keeps parallel passes apart
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
