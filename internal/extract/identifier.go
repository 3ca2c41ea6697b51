package extract

import (
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

const (
	primaryIDParam = "comment_id"
	replyIDParam   = "reply_comment_id"
)

// commentIDPattern matches the raw query pair when structured parsing fails.
var commentIDPattern = regexp.MustCompile(`(?:comment_id|reply_comment_id)=([^&]+)`)

// commentID recovers the comment identifier from the container's timestamp
// link. The link target is parsed as a URL first; the raw pattern is the
// fallback for targets the URL parser rejects or that carry no usable query.
func (x *Extractor) commentID(container *goquery.Selection) (string, bool) {
	href, ok := readAttribute(container, x.sel.timestamp, "href")
	if !ok || href == "" {
		return "", false
	}
	return x.idFromHref(href)
}

func (x *Extractor) idFromHref(href string) (string, bool) {
	id, err := idFromQuery(x.base, href)
	if err != nil {
		x.logger.Warn("link target parse failed, trying pattern fallback", "href", href, "error", err)
	} else if id != "" {
		return id, true
	}

	if m := commentIDPattern.FindStringSubmatch(href); m != nil {
		return m[1], true
	}
	return "", false
}

// idFromQuery resolves href against base and reads the identifier from its
// query, primary key first.
func idFromQuery(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	q := base.ResolveReference(ref).Query()
	if id := q.Get(primaryIDParam); id != "" {
		return id, nil
	}
	return q.Get(replyIDParam), nil
}
