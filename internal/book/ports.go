package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for catalog record storage.
type Repository interface {
	List(ctx context.Context, f Filters) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, d Draft) (Book, error)
	Update(ctx context.Context, id string, d Draft) (Book, error)
	Delete(ctx context.Context, id string) error
}
