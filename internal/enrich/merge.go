package enrich

import (
	"strings"

	"librarycatalog/internal/book"
	"librarycatalog/internal/isbn"
	"librarycatalog/internal/platform/openlibrary"
)

// Merge folds rec into draft. Title, author, ISBN and year are replaced only
// when rec carries a value for them; inventory counts are never touched. The
// category is always reclassified, so a record without subjects yields Others.
// The ISBN of a persisted record is immutable and is kept as is.
func Merge(draft book.Draft, rec openlibrary.Record) book.Draft {
	out := draft

	if title := strings.TrimSpace(rec.Title); title != "" {
		out.Title = title
	}

	if author := joinAuthors(rec.Authors); author != "" {
		out.Author = author
	}

	if out.IsNew() {
		if n, err := isbn.Normalize(rec.ISBN.String()); err == nil {
			out.ISBN = n.String()
		}
	}

	out.Category = Classify(rec.Subjects)

	if rec.PublishedYear > 0 {
		out.PublishedYear = rec.PublishedYear
		out.YearInferred = rec.YearInferred
	}

	return out
}

func joinAuthors(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, ", ")
}
