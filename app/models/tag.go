package models

import (
	"strings"
	"unicode"
)

// Validate checks if the tag meets all validation requirements
func (t *Tag) Validate() error {
	return validate.Struct(t)
}

var tagDelimiters = strings.NewReplacer("<", "", ">", "")

// NormalizeTag trims and case-folds a tag name and drops the characters
// the tag string uses as delimiters.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tagDelimiters.Replace(tag)))
}

// EncodeTags renders tags as the stored tag string, e.g. "<go><mongodb>".
func EncodeTags(tags []string) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString("<")
		b.WriteString(t)
		b.WriteString(">")
	}
	return b.String()
}

// ParseTags splits a stored tag string back into its tags.
func ParseTags(encoded string) []string {
	var tags []string
	for _, part := range strings.Split(encoded, ">") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "<")
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// ParseTagInput splits free-form user input on whitespace and commas.
func ParseTagInput(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
