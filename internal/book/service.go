package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"librarycatalog/internal/auth"

	"go.uber.org/zap"
)

// Service provides catalog business logic. Reads are public, writes need an
// admin session.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new catalog service. A nil logger discards output and
// a nil clock uses time.Now.
func NewService(repo Repository, logger *zap.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, logger: logger, now: now}
}

// List returns the records matching every non-empty filter, ordered by title.
func (s *Service) List(ctx context.Context, f Filters) ([]Book, error) {
	books, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return Filter(books, f), nil
}

// ListAdmin returns the records matching the admin query box.
func (s *Service) ListAdmin(ctx context.Context, session auth.Session, q string) ([]Book, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	books, err := s.repo.List(ctx, Filters{})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return FilterAdmin(books, q), nil
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new record after validation.
func (s *Service) Create(ctx context.Context, session auth.Session, d Draft) (Book, error) {
	if err := session.RequireAdmin(); err != nil {
		return Book{}, err
	}
	if !d.IsNew() {
		return Book{}, invalid(RuleIdentity, "id", "New book must not have an id")
	}
	d = trimDraft(d)
	if err := Validate(d, s.now()); err != nil {
		return Book{}, err
	}

	b, err := s.repo.Create(ctx, d)
	if err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	s.logger.Info("book created",
		zap.String("id", b.ID),
		zap.String("isbn", b.ISBN),
		zap.String("user_id", session.UserID),
	)
	return b, nil
}

// Update replaces the editable fields of a record. The stored ISBN wins; an
// empty ISBN in d keeps it and a different one is rejected.
func (s *Service) Update(ctx context.Context, session auth.Session, id string, d Draft) (Book, error) {
	if err := session.RequireAdmin(); err != nil {
		return Book{}, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	d = trimDraft(d)
	if d.ISBN == "" {
		d.ISBN = current.ISBN
	}
	if d.ISBN != current.ISBN {
		return Book{}, invalid(RuleISBN, "isbn", "ISBN cannot be changed")
	}
	d.ID = current.ID
	if err := Validate(d, s.now()); err != nil {
		return Book{}, err
	}

	b, err := s.repo.Update(ctx, id, d)
	if err != nil {
		return Book{}, fmt.Errorf("update book %s: %w", id, err)
	}
	s.logger.Info("book updated",
		zap.String("id", b.ID),
		zap.String("user_id", session.UserID),
	)
	return b, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, session auth.Session, id string) error {
	if err := session.RequireAdmin(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	s.logger.Info("book deleted",
		zap.String("id", id),
		zap.String("user_id", session.UserID),
	)
	return nil
}

func trimDraft(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.ISBN = strings.TrimSpace(d.ISBN)
	return d
}
