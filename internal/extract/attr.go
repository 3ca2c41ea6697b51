package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// readAttribute returns the named attribute of the first node matching m,
// considering container itself before its descendants. A missing node or
// attribute is reported through ok, never as an error.
func readAttribute(container *goquery.Selection, m goquery.Matcher, name string) (value string, ok bool) {
	target := container.FilterMatcher(m)
	if target.Length() == 0 {
		target = container.FindMatcher(m)
	}
	if target.Length() == 0 {
		return "", false
	}
	return target.First().Attr(name)
}

// label returns the descriptive label of sel itself.
func (x *Extractor) label(sel *goquery.Selection) string {
	v, _ := sel.Attr(x.labelAttr)
	return v
}
