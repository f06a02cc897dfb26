package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/catalog/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) ProductRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `
	id, sku,
	name_en, name_ar, name_ku,
	description_en, description_ar, description_ku,
	price, wholesale_price,
	in_stock, stock_quantity, image_url,
	created_at, updated_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name.En,
		&p.Name.Ar,
		&p.Name.Ku,
		&p.Description.En,
		&p.Description.Ar,
		&p.Description.Ku,
		&p.Price,
		&p.WholesalePrice,
		&p.InStock,
		&p.StockQuantity,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID returns a product by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	return p, nil
}

// GetByIDs fetches a batch of products. Ids that do not resolve are
// left out of the map so callers can handle partial carts.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	result := make(map[uuid.UUID]*model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ANY($1)`, productColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return result, nil
}
