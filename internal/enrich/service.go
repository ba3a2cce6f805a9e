package enrich

import (
	"context"
	"fmt"

	"librarycatalog/internal/auth"
	"librarycatalog/internal/book"
	"librarycatalog/internal/isbn"
	"librarycatalog/internal/platform/openlibrary"

	"go.uber.org/zap"
)

// Lookup fetches external bibliographic data for a normalized ISBN.
type Lookup interface {
	LookupISBN(ctx context.Context, key isbn.ISBN) (*openlibrary.Record, error)
}

// Result is the outcome of enriching a draft.
type Result struct {
	Draft  book.Draft          `json:"draft"`
	Source *openlibrary.Record `json:"-"`
}

type Service struct {
	lookup Lookup
	logger *zap.Logger
}

func NewService(lookup Lookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{lookup: lookup, logger: logger}
}

// Enrich looks rawISBN up and merges the result into draft. A persisted draft
// may only be enriched by its own ISBN. Lookup errors keep their identity for
// errors.Is.
func (s *Service) Enrich(ctx context.Context, session auth.Session, draft book.Draft, rawISBN string) (Result, error) {
	if err := session.RequireAdmin(); err != nil {
		return Result{}, err
	}

	key, err := isbn.Normalize(rawISBN)
	if err != nil {
		return Result{}, err
	}
	if !draft.IsNew() && key.String() != draft.ISBN {
		return Result{}, &book.ValidationError{Rule: book.RuleISBN, Field: "isbn", Reason: "ISBN cannot be changed"}
	}

	rec, err := s.lookup.LookupISBN(ctx, key)
	if err != nil {
		s.logger.Warn("isbn lookup failed", zap.String("isbn", key.String()), zap.Error(err))
		return Result{}, fmt.Errorf("lookup %s: %w", key, err)
	}

	merged := Merge(draft, *rec)
	s.logger.Info("draft enriched",
		zap.String("isbn", key.String()),
		zap.String("category", merged.Category.String()),
		zap.Int("published_year", merged.PublishedYear),
		zap.Bool("year_inferred", merged.YearInferred),
	)
	return Result{Draft: merged, Source: rec}, nil
}
