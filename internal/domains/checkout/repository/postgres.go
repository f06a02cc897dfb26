package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/checkout/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) OrderRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order with its snapshots serialized as jsonb.
func (r *PostgresRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	appliedOffers, err := json.Marshal(order.AppliedOffers)
	if err != nil {
		return fmt.Errorf("marshal applied offers: %w", err)
	}
	freeItems, err := json.Marshal(order.FreeItems)
	if err != nil {
		return fmt.Errorf("marshal free items: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, order_number, user_id, status, pricing_tier,
			items, original_total, discount_from_offers, total,
			applied_offers, free_items, customer_note,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.PricingTier,
		items,
		order.OriginalTotal,
		order.DiscountFromOffers,
		order.Total,
		appliedOffers,
		freeItems,
		order.CustomerNote,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

const orderColumns = `
	id, order_number, user_id, status, pricing_tier,
	items, original_total, discount_from_offers, total,
	applied_offers, free_items, customer_note,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o             model.Order
		items         []byte
		appliedOffers []byte
		freeItems     []byte
	)

	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.PricingTier,
		&items,
		&o.OriginalTotal,
		&o.DiscountFromOffers,
		&o.Total,
		&appliedOffers,
		&freeItems,
		&o.CustomerNote,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(appliedOffers, &o.AppliedOffers); err != nil {
		return nil, fmt.Errorf("unmarshal applied offers: %w", err)
	}
	if err := json.Unmarshal(freeItems, &o.FreeItems); err != nil {
		return nil, fmt.Errorf("unmarshal free items: %w", err)
	}

	return &o, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Order, int, error) {
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	var total int
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	return orders, total, nil
}
