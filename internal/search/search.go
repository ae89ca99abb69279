package search

import (
	"regexp"
	"strings"
)

// Package search implements the literal substring scan over document text and
// chat history. There is no ranking or tokenization; a line or field matches
// when its lowercase form contains the lowercase query.

// Highlight wraps every case-insensitive, non-overlapping occurrence of query
// in ** markers, preserving the original casing of each match. The query is
// treated as a literal, not a pattern.
func Highlight(text, query string) string {
	if query == "" {
		return text
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return "**" + m + "**"
	})
}

// MatchLines splits text on newlines and returns every line containing the
// query, trimmed and highlighted. An empty query matches every line, since an
// empty substring is contained in everything.
func MatchLines(text, query string) []string {
	q := strings.ToLower(query)
	matches := []string{}
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), q) {
			matches = append(matches, Highlight(strings.TrimSpace(line), query))
		}
	}
	return matches
}

// MatchesEither reports whether the query appears, case-insensitively, in at
// least one of the two fields.
func MatchesEither(query, a, b string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a), q) || strings.Contains(strings.ToLower(b), q)
}
