package config

import (
	"net/url"
	"strings"
)

// QuestionFromLink returns the "question" query parameter of a page link.
// The link may be a full URL, "?question=..." or a bare query string.
// Anything missing or unparsable yields "".
func QuestionFromLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	rawQuery := link
	if strings.Contains(link, "?") || strings.Contains(link, "://") {
		u, err := url.Parse(link)
		if err != nil {
			return ""
		}
		rawQuery = u.RawQuery
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	return values.Get("question")
}
