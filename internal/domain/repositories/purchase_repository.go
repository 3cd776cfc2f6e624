package repositories

import (
	"context"

	"github.com/google/uuid"
	"doc-check.backend/internal/domain/entities"
)

// PurchaseRepository defines purchase data operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entities.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error)
	GetByCode(ctx context.Context, code string) (*entities.Purchase, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Purchase, int, error)
	Update(ctx context.Context, purchase *entities.Purchase) error
	// UpdateStatusIf moves the purchase to next only while its current status is
	// in allowedFrom, in one statement. Returns domain ErrStateConflict when the
	// guard does not match so concurrent triggers cannot double-apply.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, allowedFrom []entities.PurchaseStatus, next entities.PurchaseStatus) error
}

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
