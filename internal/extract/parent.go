package extract

import (
	"slices"

	"github.com/PuerkitoBio/goquery"
)

// parentSource records how a reply's parent was chosen.
type parentSource int

const (
	parentNotFound parentSource = iota
	parentByAuthor              // candidate author matched the replied-to name
	parentByNearest             // nearest preceding candidate that had an id
)

func (s parentSource) String() string {
	switch s {
	case parentByAuthor:
		return "author_match"
	case parentByNearest:
		return "nearest"
	default:
		return "not_found"
	}
}

type parentMatch struct {
	id     string
	source parentSource
}

// candidateScan is the outcome of scanning one sibling's candidates.
type candidateScan struct {
	matched string // id of the candidate whose author matched
	firstID string // id of the first candidate that had one
}

// resolveParent finds the comment a reply answers. It walks up from the
// reply one level at a time and, at each level, scans the immediate previous
// sibling and the comment containers inside it, deepest first. The first
// candidate whose author matches the name in the reply's label wins. If none
// matches anywhere, the first candidate seen with an id is used instead.
func (x *Extractor) resolveParent(reply *goquery.Selection) parentMatch {
	target, hasTarget := targetAuthorFromReplyLabel(x.label(reply))
	x.logger.Debug("resolving parent", "target_author", target)

	var nearest string
	level := 0
	for cur := reply; cur.Parent().Length() > 0; cur = cur.Parent() {
		if x.maxParentDepth > 0 && level >= x.maxParentDepth {
			x.logger.Debug("parent search depth cap reached", "levels", level)
			break
		}
		level++

		prev := cur.Prev()
		if prev.Length() == 0 {
			continue
		}

		scan := x.scanCandidates(x.parentCandidates(prev), target, hasTarget)
		if scan.matched != "" {
			x.logger.Debug("parent found by author match", "parent_id", scan.matched, "levels", level)
			return parentMatch{id: scan.matched, source: parentByAuthor}
		}
		if nearest == "" {
			nearest = scan.firstID
		}
	}

	return nearestParent(nearest)
}

// nearestParent is the fallback policy: without an author match, the first
// candidate with an id, in scan order, is taken as the parent.
func nearestParent(firstID string) parentMatch {
	if firstID == "" {
		return parentMatch{source: parentNotFound}
	}
	return parentMatch{id: firstID, source: parentByNearest}
}

// parentCandidates lists sibling (when it is itself a comment container)
// followed by every comment container inside it, reversed so the deepest,
// most recently rendered containers come first.
func (x *Extractor) parentCandidates(sibling *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	if sibling.IsMatcher(x.sel.comment) {
		out = append(out, sibling)
	}
	sibling.FindMatcher(x.sel.comment).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	slices.Reverse(out)
	return out
}

func (x *Extractor) scanCandidates(candidates []*goquery.Selection, target string, hasTarget bool) candidateScan {
	var scan candidateScan
	for _, cand := range candidates {
		id, ok := x.commentID(cand)
		if !ok {
			x.logger.Debug("skipping parent candidate without id")
			continue
		}
		if scan.firstID == "" {
			scan.firstID = id
		}

		author, hasAuthor := x.authorOf(cand)
		x.logger.Debug("checking parent candidate", "author", author, "id", id)
		if hasTarget && hasAuthor && sameAuthor(author, target) {
			scan.matched = id
			return scan
		}
	}
	return scan
}
