package extract

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

var leadingDigits = regexp.MustCompile(`^(\d+)`)

// reactionCount parses the leading count from the reaction control's label,
// e.g. "15 reactions; see who reacted to this". Anything unparseable is 0.
func (x *Extractor) reactionCount(container *goquery.Selection) int {
	label, ok := readAttribute(container, x.sel.reaction, x.labelAttr)
	if !ok {
		return 0
	}
	return leadingCount(label)
}

func leadingCount(label string) int {
	m := leadingDigits.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// out of range
		return 0
	}
	return n
}
