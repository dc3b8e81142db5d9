package models

import (
	"strings"
	"unicode"
)

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SearchTerms lower-cases keywords into distinct search terms.
func SearchTerms(keywords string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range words(keywords) {
		if !seen[w] {
			seen[w] = true
			terms = append(terms, w)
		}
	}
	return terms
}

// MatchScore counts how many words of the title, body and tags equal one
// of the terms. Zero means the post does not match.
func (p *Post) MatchScore(terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	want := make(map[string]bool, len(terms))
	for _, t := range terms {
		want[t] = true
	}
	score := 0
	text := p.Title + " " + p.Body + " " + strings.Join(ParseTags(p.Tags), " ")
	for _, w := range words(text) {
		if want[w] {
			score++
		}
	}
	return score
}
