package book

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"librarycatalog/internal/isbn"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// Rule names the record constraint a draft violated.
type Rule string

const (
	RuleNames     Rule = "names"
	RuleISBN      Rule = "isbn"
	RuleInventory Rule = "inventory"
	RuleYear      Rule = "published_year"
	RuleCategory  Rule = "category"
	RuleIdentity  Rule = "id"
)

// ValidationError reports the first violated rule of a draft.
type ValidationError struct {
	Rule   Rule
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Column widths of the books table, counted in characters.
const (
	MaxTitleLen  = 200
	MaxAuthorLen = 100
)

func invalid(rule Rule, field, reason string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Reason: reason}
}

// Validate checks the record rules in order and returns the first failure.
// now supplies the current calendar year.
func Validate(d Draft, now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return invalid(RuleNames, "title", "Title is required")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLen {
		return invalid(RuleNames, "title", fmt.Sprintf("Title must be at most %d characters", MaxTitleLen))
	}
	if strings.TrimSpace(d.Author) == "" {
		return invalid(RuleNames, "author", "Author is required")
	}
	if utf8.RuneCountInString(d.Author) > MaxAuthorLen {
		return invalid(RuleNames, "author", fmt.Sprintf("Author must be at most %d characters", MaxAuthorLen))
	}

	if strings.TrimSpace(d.ISBN) == "" {
		return invalid(RuleISBN, "isbn", "ISBN is required")
	}
	if !isbn.Valid(d.ISBN) {
		return invalid(RuleISBN, "isbn", "ISBN must be 10-13 digits")
	}

	if d.AvailableCopies > d.TotalCopies {
		return invalid(RuleInventory, "available_copies", "Available copies cannot exceed total copies")
	}
	if d.TotalCopies < 1 {
		return invalid(RuleInventory, "total_copies", "Total copies must be at least 1")
	}
	if d.AvailableCopies < 0 {
		return invalid(RuleInventory, "available_copies", "Available copies cannot be negative")
	}

	if d.PublishedYear < 1000 || d.PublishedYear > now.Year() {
		return invalid(RuleYear, "published_year", "Published year must be valid")
	}

	if !d.Category.Valid() {
		return invalid(RuleCategory, "category", fmt.Sprintf("Category must be one of: %s", CategoryNames()))
	}
	return nil
}
