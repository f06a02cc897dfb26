package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/catalog/model"
)

// ProductRepository exposes the catalog lookups the offer engine and
// checkout need. Lookups are read-only.
type ProductRepository interface {
	// FindByID returns a single product or model.ErrProductNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs returns the products found for the given ids, keyed by id.
	// Missing ids are simply absent from the result, never an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
}
