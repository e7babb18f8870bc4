package filter

import (
	"strings"

	"github.com/calvinalkan/streamview/internal/entry"
	"github.com/calvinalkan/streamview/internal/markup"
)

// Search is a prepared free-text query.
type Search struct {
	needle string
}

// NewSearch prepares query. Runs of whitespace match any run of whitespace;
// a blank query matches every entry.
func NewSearch(query string) Search {
	return Search{needle: fold(query)}
}

// fold lower-cases s and collapses whitespace runs the way
// [markup.PlainText] does.
func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Empty reports whether the search passes everything.
func (s Search) Empty() bool {
	return s.needle == ""
}

// Matches reports whether the title or the plain text of the content contains
// the query, ignoring case.
func (s Search) Matches(e *entry.Entry) bool {
	if s.needle == "" {
		return true
	}

	if strings.Contains(fold(e.Title), s.needle) {
		return true
	}

	return strings.Contains(fold(markup.PlainText(e.Content)), s.needle)
}

// MatchesSearch is the one-shot form of [Search.Matches].
func MatchesSearch(e *entry.Entry, query string) bool {
	return NewSearch(query).Matches(e)
}
