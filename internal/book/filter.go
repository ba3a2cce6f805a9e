package book

import "strings"

// Filter returns the records matching every non-empty criterion, in input order.
//
// Search matches title or author and Author matches author only, both as
// case-insensitive substrings. Category must match exactly.
func Filter(records []Book, f Filters) []Book {
	search := strings.ToLower(criterion(f.Search))
	author := strings.ToLower(criterion(f.Author))
	category := criterion(f.Category)

	out := make([]Book, 0, len(records))
	for _, b := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Author), search) {
			continue
		}
		if category != "" && string(b.Category) != category {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterAdmin applies the single query box of the admin listing: title or author
// case-insensitively, or a plain substring of the ISBN.
func FilterAdmin(records []Book, q string) []Book {
	q = criterion(q)
	if q == "" {
		return append(make([]Book, 0, len(records)), records...)
	}
	lower := strings.ToLower(q)

	out := make([]Book, 0, len(records))
	for _, b := range records {
		if strings.Contains(strings.ToLower(b.Title), lower) ||
			strings.Contains(strings.ToLower(b.Author), lower) ||
			strings.Contains(b.ISBN, q) {
			out = append(out, b)
		}
	}
	return out
}

// criterion treats whitespace-only input as absent.
func criterion(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
