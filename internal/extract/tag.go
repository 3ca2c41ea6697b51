package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

// stripReplyTag removes a leading "@name" tag from reply text. It applies
// only when the text node's first child element is a link and the text
// literally begins with that link's text.
func stripReplyTag(text string, node *goquery.Selection) string {
	if node == nil || node.Length() == 0 {
		return text
	}
	first := node.Children().First()
	if first.Length() == 0 || !isElement(first.Get(0), atom.A) {
		return text
	}
	tag := strings.TrimSpace(first.Text())
	if tag == "" || !strings.HasPrefix(text, tag) {
		return text
	}
	return strings.TrimLeftFunc(text[len(tag):], unicode.IsSpace)
}
