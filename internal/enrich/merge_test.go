package enrich

import (
	"testing"

	"librarycatalog/internal/book"
	"librarycatalog/internal/platform/openlibrary"

	"github.com/stretchr/testify/assert"
)

func adminDraft() book.Draft {
	return book.Draft{
		Title:           "Draft title",
		Author:          "Draft author",
		ISBN:            "",
		Category:        book.CategoryHistory,
		PublishedYear:   1990,
		TotalCopies:     5,
		AvailableCopies: 3,
	}
}

func TestMerge_ReplacesPresentFields(t *testing.T) {
	rec := openlibrary.Record{
		ISBN:          "9780441013593",
		Title:         "Dune",
		Authors:       []string{"Frank Herbert", "", "Someone Else"},
		Subjects:      []string{"Science fiction"},
		PublishedYear: 1965,
	}

	got := Merge(adminDraft(), rec)

	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert, Someone Else", got.Author)
	assert.Equal(t, "9780441013593", got.ISBN)
	assert.Equal(t, book.CategoryFiction, got.Category)
	assert.Equal(t, 1965, got.PublishedYear)
	assert.False(t, got.YearInferred)
}

func TestMerge_PreservesInventory(t *testing.T) {
	records := []openlibrary.Record{
		{},
		{Title: "T", Authors: []string{"A"}, ISBN: "1234567890", Subjects: []string{"art"}, PublishedYear: 2000},
		{PublishedYear: 2026, YearInferred: true},
	}
	for _, rec := range records {
		got := Merge(adminDraft(), rec)
		assert.Equal(t, 5, got.TotalCopies)
		assert.Equal(t, 3, got.AvailableCopies)
	}
}

func TestMerge_KeepsDraftWhenExternalEmpty(t *testing.T) {
	draft := adminDraft()
	draft.ISBN = "1111111111"

	got := Merge(draft, openlibrary.Record{Title: "   ", Authors: []string{" "}, Subjects: []string{""}})

	want := draft
	want.Category = book.CategoryOthers
	assert.Equal(t, want, got)
}

func TestMerge_NoSubjectsBecomeOthers(t *testing.T) {
	for _, subjects := range [][]string{nil, {}, {"  "}} {
		got := Merge(adminDraft(), openlibrary.Record{Title: "Dune", Subjects: subjects})
		assert.Equal(t, book.CategoryOthers, got.Category, "subjects %q", subjects)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	draft := adminDraft()
	before := draft

	_ = Merge(draft, openlibrary.Record{Title: "New", PublishedYear: 2001})

	assert.Equal(t, before, draft)
}

func TestMerge_ExistingRecordKeepsISBN(t *testing.T) {
	draft := adminDraft()
	draft.ID = "book-1"
	draft.ISBN = "1111111111"

	got := Merge(draft, openlibrary.Record{ISBN: "9780441013593", Title: "Dune"})

	assert.Equal(t, "1111111111", got.ISBN)
	assert.Equal(t, "Dune", got.Title)
}

func TestMerge_InvalidExternalISBNIgnored(t *testing.T) {
	draft := adminDraft()
	draft.ISBN = "1111111111"

	got := Merge(draft, openlibrary.Record{ISBN: "12-34"})

	assert.Equal(t, "1111111111", got.ISBN)
}

func TestMerge_UnmatchedSubjectsBecomeOthers(t *testing.T) {
	got := Merge(adminDraft(), openlibrary.Record{Subjects: []string{"Cooking"}})
	assert.Equal(t, book.CategoryOthers, got.Category)
}

func TestMerge_CarriesInferredYear(t *testing.T) {
	got := Merge(adminDraft(), openlibrary.Record{PublishedYear: 2026, YearInferred: true})
	assert.Equal(t, 2026, got.PublishedYear)
	assert.True(t, got.YearInferred)
}
