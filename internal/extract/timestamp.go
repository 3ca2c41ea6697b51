package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

// timestampText returns the relative time label ("2h", "3 days ago") shown
// on the comment's timestamp link. A link holding only text is preferred;
// otherwise the first link with any inner text is used.
func (x *Extractor) timestampText(container *goquery.Selection) (string, bool) {
	links := htmlquery.QuerySelectorAll(container.Get(0), x.sel.timestampPath)

	for _, a := range links {
		if plainText(a) {
			if t := strings.TrimSpace(htmlquery.InnerText(a)); t != "" {
				return t, true
			}
		}
	}
	for _, a := range links {
		if t := strings.TrimSpace(htmlquery.InnerText(a)); t != "" {
			return t, true
		}
	}
	return types.UnknownTimestamp, false
}

// plainText reports whether n has no element children.
func plainText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}
