package book

import "strings"

// Category is one entry of the fixed catalog vocabulary.
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "Non Fiction"
	CategoryScience    Category = "Science"
	CategoryHistory    Category = "History"
	CategoryTechnology Category = "Technology"
	CategoryArts       Category = "Arts"
	CategoryOthers     Category = "Others"
)

// Categories lists the vocabulary in display order.
var Categories = []Category{
	CategoryFiction,
	CategoryNonFiction,
	CategoryScience,
	CategoryHistory,
	CategoryTechnology,
	CategoryArts,
	CategoryOthers,
}

var validCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// Valid reports whether c is part of the vocabulary. Matching is case-sensitive.
func (c Category) Valid() bool {
	return validCategories[c]
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory returns the vocabulary entry equal to s, or false.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// CategoryNames joins the vocabulary for messages.
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
