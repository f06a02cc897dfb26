package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/checkout/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Order, int, error)
}
