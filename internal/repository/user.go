package repository

import (
	"context"

	"aspiro-server/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Email lookups are case-insensitive; Create enforces case-folded email
// uniqueness atomically.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
