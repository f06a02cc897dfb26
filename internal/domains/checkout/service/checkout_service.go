package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/checkout/model"
	"storefront-backend/internal/domains/checkout/repository"
	offermodel "storefront-backend/internal/domains/offer/model"
	offerservice "storefront-backend/internal/domains/offer/service"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

// CheckoutService places orders with the offer outcome applied and
// frozen in.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID *uuid.UUID, req *model.PlaceOrderRequest, tier offermodel.PricingTier) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Order, int, error)
}

// TaskEnqueuer is the slice of asynq.Client checkout needs, kept as an
// interface so tests can observe enqueued tasks.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type checkoutService struct {
	orderRepo   repository.OrderRepository
	offers      offerservice.OfferService
	asynqClient TaskEnqueuer
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	offers offerservice.OfferService,
	asynqClient TaskEnqueuer,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		offers:      offers,
		asynqClient: asynqClient,
	}
}

// PlaceOrder prices the cart, evaluates offers, persists the order and
// hands usage recording to the worker.
func (s *checkoutService) PlaceOrder(
	ctx context.Context,
	userID *uuid.UUID,
	req *model.PlaceOrderRequest,
	tier offermodel.PricingTier,
) (*model.Order, error) {
	// Step 1: resolve the cart against the catalog
	lines, err := s.offers.BuildCartLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	// Step 2: evaluate offers against the priced cart
	result, err := s.offers.EvaluateCart(ctx, lines, tier, time.Now())
	if err != nil {
		return nil, fmt.Errorf("evaluate offers: %w", err)
	}

	// Step 3: build the order snapshot
	items := make([]model.OrderItem, 0, len(lines))
	originalTotal := decimal.Zero
	for i := range lines {
		line := &lines[i]
		unitPrice := offermodel.ResolveUnitPrice(line.Product, tier)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		originalTotal = originalTotal.Add(lineTotal)

		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			SKU:       line.Product.SKU,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}

	total := originalTotal.Sub(result.TotalDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := &model.Order{
		ID:                 uuid.New(),
		OrderNumber:        generateOrderNumber(),
		UserID:             userID,
		Status:             model.StatusPending,
		PricingTier:        string(tier),
		Items:              items,
		OriginalTotal:      originalTotal,
		DiscountFromOffers: result.TotalDiscount,
		Total:              total,
		AppliedOffers:      result.Applications,
		FreeItems:          result.FreeItems,
		CustomerNote:       req.CustomerNote,
	}

	// Step 4: persist
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	// Step 5: hand usage recording to the worker. The order is already
	// committed, an enqueue failure must not undo the sale.
	s.enqueueUsageRecords(order, result.Applications)

	return order, nil
}

// enqueueUsageRecords sends one record_usage task per applied campaign.
func (s *checkoutService) enqueueUsageRecords(order *model.Order, applications []offermodel.OfferApplication) {
	for _, app := range applications {
		payload := offermodel.RecordUsagePayload{
			CampaignID:     app.CampaignID,
			OrderID:        order.ID,
			UserID:         order.UserID,
			DiscountAmount: app.DiscountAmount,
		}

		task, err := utils.NewTask(shared.TypeRecordOfferUsage, payload)
		if err != nil {
			logger.Error("Failed to build record_usage task", err)
			continue
		}

		_, err = s.asynqClient.Enqueue(task,
			asynq.Queue(shared.QueueLow),
			asynq.MaxRetry(5),
			asynq.Timeout(30*time.Second),
		)
		if err != nil {
			logger.Error("Failed to enqueue record_usage task", err)
		}
	}
}

func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *checkoutService) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.orderRepo.ListByUser(ctx, userID, page, limit)
}

// generateOrderNumber yields a human readable, roughly sortable order
// reference. Uniqueness is enforced by the database constraint.
func generateOrderNumber() string {
	now := time.Now().UTC()
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
