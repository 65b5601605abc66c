// Package relevance decides whether a normalized record is on-topic.
package relevance

import "strings"

// minKeywordMatches is the number of distinct topic keywords a record must
// contain to be considered relevant.
const minKeywordMatches = 2

// Filter matches records against an immutable topic-keyword set.
type Filter struct {
	keywords []string
}

// NewFilter lower-cases and stores the keyword set once.
func NewFilter(keywords []string) *Filter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Filter{keywords: lowered}
}

// IsRelevant reports whether title+abstract contain at least two distinct
// topic keywords. Matching is case-insensitive substring search, no
// stemming. Empty text never matches.
func (f *Filter) IsRelevant(title, abstract string) bool {
	return f.MatchCount(title, abstract) >= minKeywordMatches
}

// MatchCount returns the number of distinct keywords present in
// title+abstract.
func (f *Filter) MatchCount(title, abstract string) int {
	text := strings.ToLower(title + " " + abstract)
	count := 0
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
