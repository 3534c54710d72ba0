package repository

import (
	"context"

	"aspiro-server/internal/domain"
)

// ResourceRepository defines persistence operations for catalog resources.
type ResourceRepository interface {
	Init(ctx context.Context) error
	// Seed inserts the given resources only when the catalog is empty.
	Seed(ctx context.Context, resources []domain.Resource) error
	List(ctx context.Context) ([]domain.Resource, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Resource, error)
	SetModelKey(ctx context.Context, slug, key string) error
}
