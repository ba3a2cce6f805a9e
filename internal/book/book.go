package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another record already uses the ISBN.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// Book is a persisted catalog record.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Category        Category  `json:"category"`
	PublishedYear   int       `json:"published_year"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Draft is a record under admin edit. ID is empty until the store assigns one.
type Draft struct {
	ID              string   `json:"id,omitempty"`
	Title           string   `json:"title" validate:"max=200"`
	Author          string   `json:"author" validate:"max=100"`
	ISBN            string   `json:"isbn" validate:"max=32"`
	Category        Category `json:"category"`
	PublishedYear   int      `json:"published_year"`
	TotalCopies     int      `json:"total_copies"`
	AvailableCopies int      `json:"available_copies"`
	// YearInferred marks a PublishedYear that enrichment guessed rather than read.
	YearInferred bool `json:"year_inferred,omitempty"`
}

// IsNew reports whether the draft has not been persisted yet.
func (d Draft) IsNew() bool {
	return d.ID == ""
}

// NewDraft returns the defaults of an empty "new book" form.
func NewDraft(now time.Time) Draft {
	return Draft{
		Category:        CategoryOthers,
		PublishedYear:   now.Year(),
		AvailableCopies: 0,
		TotalCopies:     1,
	}
}

// DraftFrom hydrates a draft from a persisted record.
func DraftFrom(b Book) Draft {
	return Draft{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublishedYear:   b.PublishedYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// Availability summarizes the inventory of a record.
type Availability struct {
	Status    string `json:"status"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
	Borrowed  int    `json:"borrowed"`
}

// IsAvailable reports whether at least one copy can be lent.
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

func (b Book) Availability() Availability {
	status := StatusUnavailable
	if b.IsAvailable() {
		status = StatusAvailable
	}
	return Availability{
		Status:    status,
		Available: b.AvailableCopies,
		Total:     b.TotalCopies,
		Borrowed:  b.TotalCopies - b.AvailableCopies,
	}
}

// Filters narrows a catalog listing. Empty fields match everything.
type Filters struct {
	Search   string
	Category string
	Author   string
}
