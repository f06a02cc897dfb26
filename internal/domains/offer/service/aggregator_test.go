package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/domains/offer/model"
)

// -------------------------------------------------------------------
// FAKES
// -------------------------------------------------------------------

type fakeCampaignRepo struct {
	campaigns   []*model.Campaign
	listErr     error
	listCalls   int
	usages      []*model.CampaignUsage
	usageErr    error
	usageByPair map[string]bool
}

func (f *fakeCampaignRepo) ListActive(ctx context.Context, now time.Time) ([]*model.Campaign, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.campaigns, nil
}

func (f *fakeCampaignRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	for _, c := range f.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, model.ErrCampaignNotFound
}

func (f *fakeCampaignRepo) List(ctx context.Context, filter *model.ListCampaignsFilter) ([]*model.Campaign, int, error) {
	return f.campaigns, len(f.campaigns), nil
}

func (f *fakeCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	c.ID = uuid.New()
	f.campaigns = append(f.campaigns, c)
	return nil
}

func (f *fakeCampaignRepo) Update(ctx context.Context, c *model.Campaign) error { return nil }

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (f *fakeCampaignRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeCampaignRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, c := range f.campaigns {
		if c.Active && c.EndAt.Before(now) {
			c.Active = false
			count++
		}
	}
	return count, nil
}

func (f *fakeCampaignRepo) CreateUsage(ctx context.Context, usage *model.CampaignUsage) error {
	if f.usageErr != nil {
		return f.usageErr
	}
	if f.usageByPair == nil {
		f.usageByPair = map[string]bool{}
	}
	key := usage.CampaignID.String() + "/" + usage.OrderID.String()
	if f.usageByPair[key] {
		return model.ErrDuplicateUsage
	}
	f.usageByPair[key] = true
	f.usages = append(f.usages, usage)
	return nil
}

func (f *fakeCampaignRepo) GetUsageStats(ctx context.Context, campaignID uuid.UUID, startDate, endDate *time.Time) (*model.UsageStats, error) {
	return &model.UsageStats{}, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalogmodel.Product
	err      error
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, catalogmodel.ErrProductNotFound
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalogmodel.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := map[uuid.UUID]*catalogmodel.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

// memoryCache is a JSON round-tripping cache so cached campaigns go
// through the same serialization as redis.
type memoryCache struct {
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.store, key)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

// -------------------------------------------------------------------
// TESTS
// -------------------------------------------------------------------

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeCampaignRepo, products *fakeProductRepo) OfferService {
	return NewOfferService(repo, products, newMemoryCache(), 30*time.Second)
}

func TestEvaluateCart_CampaignsEvaluatedIndependently(t *testing.T) {
	p := newProduct("100.00", nil)
	reward := newProduct("10.00", nil)

	ten := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
	five := discountCampaign(model.DiscountRule{Type: model.DiscountFixed, Amount: dec("5")})
	bgf := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: p.ID,
		BuyQuantity:     2,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{ten, five, bgf}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{
		p.ID:      p,
		reward.ID: reward,
	}}
	svc := newTestService(repo, products)

	lines := []model.CartLine{newLine(p, 2)}
	result, err := svc.EvaluateCart(context.Background(), lines, model.TierRetail, testNow)
	require.NoError(t, err)

	// Each campaign sees the original cart: 10% of 200 = 20, fixed
	// 5*2 = 10, total 30. The buy_get grants one free unit.
	require.Len(t, result.Applications, 3)
	assert.True(t, result.TotalDiscount.Equal(dec("30")), "got %s", result.TotalDiscount)
	require.Len(t, result.FreeItems, 1)
	assert.Equal(t, reward.ID, result.FreeItems[0].ProductID)
	assert.Equal(t, 1, result.FreeItems[0].Quantity)

	// Input lines pass through unmodified.
	assert.Equal(t, lines, result.Lines)
}

func TestEvaluateCart_TrivialApplicationsDropped(t *testing.T) {
	p := newProduct("100.00", nil)
	other := newProduct("50.00", nil)
	reward := newProduct("10.00", nil)

	// Fires on a product that is not in the cart.
	miss := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: other.ID,
		BuyQuantity:     1,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})
	hit := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{miss, hit}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	result, err := svc.EvaluateCart(context.Background(), []model.CartLine{newLine(p, 1)}, model.TierRetail, testNow)
	require.NoError(t, err)

	require.Len(t, result.Applications, 1)
	assert.Equal(t, hit.ID, result.Applications[0].CampaignID)
}

func TestEvaluateCart_RepositoryFailureDegradesToNoOffers(t *testing.T) {
	p := newProduct("100.00", nil)

	repo := &fakeCampaignRepo{listErr: errors.New("connection refused")}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	lines := []model.CartLine{newLine(p, 2)}
	result, err := svc.EvaluateCart(context.Background(), lines, model.TierRetail, testNow)

	require.NoError(t, err)
	assert.Empty(t, result.Applications)
	assert.True(t, result.TotalDiscount.IsZero())
	assert.Empty(t, result.FreeItems)
	assert.Equal(t, lines, result.Lines)
}

func TestEvaluateCart_MalformedCampaignSkipped(t *testing.T) {
	p := newProduct("100.00", nil)

	malformed := &model.Campaign{
		ID:      uuid.New(),
		Kind:    model.KindDiscount, // no rule payload
		Active:  true,
		StartAt: testNow.Add(-time.Hour),
		EndAt:   testNow.Add(time.Hour),
	}
	valid := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{malformed, valid}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	result, err := svc.EvaluateCart(context.Background(), []model.CartLine{newLine(p, 1)}, model.TierRetail, testNow)
	require.NoError(t, err)

	require.Len(t, result.Applications, 1)
	assert.Equal(t, valid.ID, result.Applications[0].CampaignID)
}

func TestEvaluateCart_OutOfWindowCampaignSkipped(t *testing.T) {
	p := newProduct("100.00", nil)

	expired := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
	expired.EndAt = testNow.Add(-time.Hour)

	inactive := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
	inactive.Active = false

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{expired, inactive}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	result, err := svc.EvaluateCart(context.Background(), []model.CartLine{newLine(p, 1)}, model.TierRetail, testNow)
	require.NoError(t, err)
	assert.Empty(t, result.Applications)
}

func TestEvaluateCart_FreeItemLookupMissDropsGrant(t *testing.T) {
	linked := newProduct("25.00", nil)
	ghost := uuid.New() // product removed from the catalog

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: linked.ID,
		BuyQuantity:     1,
		GetProductID:    ghost,
		GetDiscountType: model.DiscountFree,
	})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{campaign}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{linked.ID: linked}}
	svc := newTestService(repo, products)

	result, err := svc.EvaluateCart(context.Background(), []model.CartLine{newLine(linked, 2)}, model.TierRetail, testNow)
	require.NoError(t, err)

	// The application survives, the unresolvable grant does not.
	require.Len(t, result.Applications, 1)
	assert.Empty(t, result.FreeItems)
}

func TestEvaluateCart_UsesCacheOnSecondCall(t *testing.T) {
	p := newProduct("100.00", nil)
	campaign := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{campaign}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	lines := []model.CartLine{newLine(p, 1)}

	first, err := svc.EvaluateCart(context.Background(), lines, model.TierRetail, testNow)
	require.NoError(t, err)
	second, err := svc.EvaluateCart(context.Background(), lines, model.TierRetail, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.True(t, first.TotalDiscount.Equal(second.TotalDiscount))
	assert.Equal(t, len(first.FreeItems), len(second.FreeItems))
}

func TestEvaluateCart_NoActiveCampaigns(t *testing.T) {
	p := newProduct("100.00", nil)

	repo := &fakeCampaignRepo{} // nothing is running
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(repo, products)

	lines := []model.CartLine{newLine(p, 3)}
	result, err := svc.EvaluateCart(context.Background(), lines, model.TierRetail, testNow)
	require.NoError(t, err)

	assert.Empty(t, result.Applications)
	assert.True(t, result.TotalDiscount.IsZero())
	assert.Empty(t, result.FreeItems)
	assert.Equal(t, lines, result.Lines)
}

func TestEvaluateCart_EmptyCart(t *testing.T) {
	campaign := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{campaign}}
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{}}
	svc := newTestService(repo, products)

	result, err := svc.EvaluateCart(context.Background(), nil, model.TierRetail, testNow)
	require.NoError(t, err)

	assert.Empty(t, result.Applications)
	assert.True(t, result.TotalDiscount.IsZero())
}

func TestBuildCartLines(t *testing.T) {
	p := newProduct("100.00", nil)
	products := &fakeProductRepo{products: map[uuid.UUID]*catalogmodel.Product{p.ID: p}}
	svc := newTestService(&fakeCampaignRepo{}, products)

	t.Run("resolves products", func(t *testing.T) {
		lines, err := svc.BuildCartLines(context.Background(), []model.CartLineInput{
			{ProductID: p.ID.String(), Quantity: 2},
		})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, p, lines[0].Product)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		_, err := svc.BuildCartLines(context.Background(), []model.CartLineInput{
			{ProductID: uuid.New().String(), Quantity: 1},
		})
		assert.ErrorIs(t, err, model.ErrUnknownProduct)
	})
}

func TestRecordUsage_DuplicateAbsorbed(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := newTestService(repo, &fakeProductRepo{})

	userID := uuid.New()
	payload := &model.RecordUsagePayload{
		CampaignID:     uuid.New(),
		OrderID:        uuid.New(),
		UserID:         &userID,
		DiscountAmount: decimal.NewFromInt(25),
	}

	require.NoError(t, svc.RecordUsage(context.Background(), payload))
	require.Len(t, repo.usages, 1)

	// Redelivery of the same task succeeds without a second record.
	require.NoError(t, svc.RecordUsage(context.Background(), payload))
	require.Len(t, repo.usages, 1)
}

func TestListActiveCampaigns_FiltersIneligible(t *testing.T) {
	active := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
	upcoming := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
	upcoming.StartAt = testNow.Add(time.Hour)

	repo := &fakeCampaignRepo{campaigns: []*model.Campaign{active, upcoming}}
	svc := newTestService(repo, &fakeProductRepo{})

	campaigns, err := svc.ListActiveCampaigns(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, active.ID, campaigns[0].ID)
}
