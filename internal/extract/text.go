package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textCandidate is a text-bearing node considered as a comment body.
type textCandidate struct {
	text   string
	node   *goquery.Selection
	inLink bool
}

// selectText picks the most likely body text inside container. The longest
// candidate wins; whether it sits inside a link only matters while nothing
// else has been seen. When no text-bearing descendant has text, direct child
// spans without links are tried. ok is false when nothing qualifies.
func (x *Extractor) selectText(container *goquery.Selection) (best textCandidate, ok bool) {
	root := container.Get(0)

	container.FindMatcher(x.sel.text).Each(func(_ int, node *goquery.Selection) {
		text := strings.TrimSpace(node.Text())
		if text == "" {
			return
		}
		cand := textCandidate{text: text, node: node, inLink: insideLink(node.Get(0), root)}
		if preferCandidate(cand, best, ok) {
			best, ok = cand, true
		}
	})
	if ok {
		if best.inLink {
			x.logger.Debug("body text taken from inside a link", "length", textLen(best.text))
		}
		return best, true
	}

	container.Children().Each(func(_ int, child *goquery.Selection) {
		if !isElement(child.Get(0), atom.Span) {
			return
		}
		text := strings.TrimSpace(child.Text())
		if text == "" || child.FindMatcher(x.sel.link).Length() > 0 {
			return
		}
		if !ok || textLen(text) > textLen(best.text) {
			best, ok = textCandidate{text: text, node: child}, true
		}
	})

	return best, ok
}

// preferCandidate reports whether cand should replace the current best.
// Ties keep the earlier candidate.
func preferCandidate(cand, best textCandidate, haveBest bool) bool {
	longer := haveBest && textLen(cand.text) > textLen(best.text)
	switch {
	case !cand.inLink:
		return !haveBest || longer
	case !haveBest:
		// held tentatively until something better shows up
		return true
	default:
		return longer
	}
}

// insideLink reports whether any ancestor of n below root is an <a>.
func insideLink(n, root *html.Node) bool {
	if n == nil {
		return false
	}
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if isElement(p, atom.A) {
			return true
		}
	}
	return false
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// textLen measures text in code points.
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}
