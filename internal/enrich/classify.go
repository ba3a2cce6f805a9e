// Package enrich fills catalog drafts from Open Library data.
package enrich

import (
	"strings"

	"librarycatalog/internal/book"
)

// Rule maps a keyword group onto a category.
type Rule struct {
	Keywords []string
	Category book.Category
}

// Rules are evaluated in order and the first match wins. A "historical
// fiction" tag is Fiction because the fiction rule comes first.
var Rules = []Rule{
	{Keywords: []string{"fiction", "novel"}, Category: book.CategoryFiction},
	{Keywords: []string{"science", "scientific"}, Category: book.CategoryScience},
	{Keywords: []string{"history", "historical"}, Category: book.CategoryHistory},
	{Keywords: []string{"technology", "computer", "programming"}, Category: book.CategoryTechnology},
	{Keywords: []string{"art", "music", "design"}, Category: book.CategoryArts},
	{Keywords: []string{"non-fiction", "biography", "autobiography"}, Category: book.CategoryNonFiction},
}

// Classify picks a category for a bag of subject tags. Keywords match as
// substrings of the lower-cased, space-joined subjects. No match yields Others.
func Classify(subjects []string) book.Category {
	if len(subjects) == 0 {
		return book.CategoryOthers
	}
	corpus := strings.ToLower(strings.Join(subjects, " "))

	for _, rule := range Rules {
		if rule.matches(corpus) {
			return rule.Category
		}
	}
	return book.CategoryOthers
}

func (r Rule) matches(corpus string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}
