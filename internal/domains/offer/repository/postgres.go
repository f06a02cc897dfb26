package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/offer/model"
)

// PostgresRepository implements CampaignRepository with PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CampaignRepository {
	return &PostgresRepository{db: db}
}

// Campaigns persist as one row per campaign. Rule payloads live in
// nullable columns gated by kind, so the tagged union survives the
// round trip without JSON blobs.
const campaignColumns = `
	id,
	title_en, title_ar, title_ku,
	description_en, description_ar, description_ku,
	kind, active, start_at, end_at,
	discount_type, discount_percentage, discount_amount, min_quantity, min_amount,
	bg_linked_product_id, bg_buy_quantity, bg_get_product_id, bg_get_discount_type, bg_get_discount_value,
	created_at, updated_at
`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var (
		c model.Campaign

		discountType       *string
		discountPercentage *decimal.Decimal
		discountAmount     *decimal.Decimal
		minQuantity        *int
		minAmount          *decimal.Decimal

		bgLinkedProductID  *uuid.UUID
		bgBuyQuantity      *int
		bgGetProductID     *uuid.UUID
		bgGetDiscountType  *string
		bgGetDiscountValue *decimal.Decimal
	)

	err := row.Scan(
		&c.ID,
		&c.Title.En, &c.Title.Ar, &c.Title.Ku,
		&c.Description.En, &c.Description.Ar, &c.Description.Ku,
		&c.Kind, &c.Active, &c.StartAt, &c.EndAt,
		&discountType, &discountPercentage, &discountAmount, &minQuantity, &minAmount,
		&bgLinkedProductID, &bgBuyQuantity, &bgGetProductID, &bgGetDiscountType, &bgGetDiscountValue,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch c.Kind {
	case model.KindDiscount:
		if discountType != nil {
			rule := &model.DiscountRule{
				Type:        *discountType,
				MinQuantity: minQuantity,
				MinAmount:   minAmount,
			}
			if discountPercentage != nil {
				rule.Percentage = *discountPercentage
			}
			if discountAmount != nil {
				rule.Amount = *discountAmount
			}
			c.Discount = rule
		}
	case model.KindBuyGet:
		if bgLinkedProductID != nil && bgGetProductID != nil && bgGetDiscountType != nil {
			rule := &model.BuyGetRule{
				LinkedProductID: *bgLinkedProductID,
				GetProductID:    *bgGetProductID,
				GetDiscountType: *bgGetDiscountType,
			}
			if bgBuyQuantity != nil {
				rule.BuyQuantity = *bgBuyQuantity
			}
			if bgGetDiscountValue != nil {
				rule.GetDiscountValue = *bgGetDiscountValue
			}
			c.BuyGet = rule
		}
	}

	return &c, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

// ListActive returns campaigns eligible at the given instant. The
// window check is inclusive on both bounds to match Campaign.IsEligible.
func (r *PostgresRepository) ListActive(ctx context.Context, now time.Time) ([]*model.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		WHERE active = true
		  AND deleted_at IS NULL
		  AND start_at <= $1
		  AND end_at >= $1
		ORDER BY created_at DESC
	`, campaignColumns)

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		WHERE id = $1 AND deleted_at IS NULL
	`, campaignColumns)

	c, err := scanCampaign(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("find campaign by id: %w", err)
	}

	return c, nil
}

// List returns a filtered admin page.
func (r *PostgresRepository) List(ctx context.Context, filter *model.ListCampaignsFilter) ([]*model.Campaign, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIndex := 1

	switch filter.Status {
	case "active":
		whereClauses = append(whereClauses, "active = true AND NOW() BETWEEN start_at AND end_at")
	case "expired":
		whereClauses = append(whereClauses, "NOW() > end_at")
	case "upcoming":
		whereClauses = append(whereClauses, "NOW() < start_at")
	}

	if filter.Kind != "" && filter.Kind != "all" {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argIndex))
		args = append(args, filter.Kind)
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(LOWER(title_en) LIKE $%d OR LOWER(title_ar) LIKE $%d OR LOWER(title_ku) LIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, campaignColumns, whereSQL, argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate campaigns: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM campaigns %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	return campaigns, total, nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

// ruleArgs flattens the union payload into the nullable rule columns.
func ruleArgs(c *model.Campaign) []interface{} {
	var (
		discountType       *string
		discountPercentage *decimal.Decimal
		discountAmount     *decimal.Decimal
		minQuantity        *int
		minAmount          *decimal.Decimal

		bgLinkedProductID  *uuid.UUID
		bgBuyQuantity      *int
		bgGetProductID     *uuid.UUID
		bgGetDiscountType  *string
		bgGetDiscountValue *decimal.Decimal
	)

	if c.Discount != nil {
		discountType = &c.Discount.Type
		discountPercentage = &c.Discount.Percentage
		discountAmount = &c.Discount.Amount
		minQuantity = c.Discount.MinQuantity
		minAmount = c.Discount.MinAmount
	}
	if c.BuyGet != nil {
		bgLinkedProductID = &c.BuyGet.LinkedProductID
		bgBuyQuantity = &c.BuyGet.BuyQuantity
		bgGetProductID = &c.BuyGet.GetProductID
		bgGetDiscountType = &c.BuyGet.GetDiscountType
		bgGetDiscountValue = &c.BuyGet.GetDiscountValue
	}

	return []interface{}{
		discountType, discountPercentage, discountAmount, minQuantity, minAmount,
		bgLinkedProductID, bgBuyQuantity, bgGetProductID, bgGetDiscountType, bgGetDiscountValue,
	}
}

func (r *PostgresRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	query := `
		INSERT INTO campaigns (
			title_en, title_ar, title_ku,
			description_en, description_ar, description_ku,
			kind, active, start_at, end_at,
			discount_type, discount_percentage, discount_amount, min_quantity, min_amount,
			bg_linked_product_id, bg_buy_quantity, bg_get_product_id, bg_get_discount_type, bg_get_discount_value,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	args := []interface{}{
		campaign.Title.En, campaign.Title.Ar, campaign.Title.Ku,
		campaign.Description.En, campaign.Description.Ar, campaign.Description.Ku,
		campaign.Kind, campaign.Active, campaign.StartAt, campaign.EndAt,
	}
	args = append(args, ruleArgs(campaign)...)

	err := r.db.QueryRow(ctx, query, args...).
		Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, campaign *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET
			title_en = $2, title_ar = $3, title_ku = $4,
			description_en = $5, description_ar = $6, description_ku = $7,
			kind = $8, active = $9, start_at = $10, end_at = $11,
			discount_type = $12, discount_percentage = $13, discount_amount = $14,
			min_quantity = $15, min_amount = $16,
			bg_linked_product_id = $17, bg_buy_quantity = $18, bg_get_product_id = $19,
			bg_get_discount_type = $20, bg_get_discount_value = $21,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	args := []interface{}{
		campaign.ID,
		campaign.Title.En, campaign.Title.Ar, campaign.Title.Ku,
		campaign.Description.En, campaign.Description.Ar, campaign.Description.Ku,
		campaign.Kind, campaign.Active, campaign.StartAt, campaign.EndAt,
	}
	args = append(args, ruleArgs(campaign)...)

	err := r.db.QueryRow(ctx, query, args...).Scan(&campaign.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCampaignNotFound
		}
		return fmt.Errorf("update campaign: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE campaigns
		SET active = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCampaignNotFound
	}

	return nil
}

// SoftDelete hides the campaign from every query while keeping usage
// history intact.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE campaigns
		SET deleted_at = NOW(), active = false, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete campaign: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCampaignNotFound
	}

	return nil
}

// DeactivateExpired is run by the worker on a schedule so expired
// campaigns stop occupying the active set.
func (r *PostgresRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE campaigns
		SET active = false, updated_at = NOW()
		WHERE active = true
		  AND deleted_at IS NULL
		  AND end_at < $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired campaigns: %w", err)
	}

	return result.RowsAffected(), nil
}

// -------------------------------------------------------------------
// USAGE TRACKING
// -------------------------------------------------------------------

// CreateUsage inserts one usage record. The unique index on
// (campaign_id, order_id) makes retries of the same task idempotent.
func (r *PostgresRepository) CreateUsage(ctx context.Context, usage *model.CampaignUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}

	query := `
		INSERT INTO campaign_usage (
			id, campaign_id, order_id, user_id, discount_amount, used_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
		RETURNING used_at
	`

	err := r.db.QueryRow(ctx, query,
		usage.ID,
		usage.CampaignID,
		usage.OrderID,
		usage.UserID,
		usage.DiscountAmount,
	).Scan(&usage.UsedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrDuplicateUsage
		}
		return fmt.Errorf("create campaign usage: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetUsageStats(
	ctx context.Context,
	campaignID uuid.UUID,
	startDate, endDate *time.Time,
) (*model.UsageStats, error) {
	whereClauses := []string{"campaign_id = $1"}
	args := []interface{}{campaignID}
	argIndex := 2

	if startDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("used_at >= $%d", argIndex))
		args = append(args, *startDate)
		argIndex++
	}

	if endDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("used_at <= $%d", argIndex))
		args = append(args, *endDate)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total_uses,
			COALESCE(SUM(discount_amount), 0) as total_discount_given,
			COALESCE(AVG(discount_amount), 0) as average_discount_per_order,
			COUNT(DISTINCT user_id) as unique_users
		FROM campaign_usage
		WHERE %s
	`, strings.Join(whereClauses, " AND "))

	var stats model.UsageStats
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&stats.TotalUses,
		&stats.TotalDiscountGiven,
		&stats.AverageDiscountPerOrder,
		&stats.UniqueUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("get usage stats: %w", err)
	}

	return &stats, nil
}
