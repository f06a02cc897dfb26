package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/domains/offer/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newProduct(price string, wholesale *string) *catalogmodel.Product {
	p := &catalogmodel.Product{
		ID:      uuid.New(),
		SKU:     "SKU-" + uuid.New().String()[:8],
		Name:    catalogmodel.LocalizedText{En: "Test product"},
		Price:   dec(price),
		InStock: true,
	}
	if wholesale != nil {
		w := dec(*wholesale)
		p.WholesalePrice = &w
	}
	return p
}

func newLine(p *catalogmodel.Product, qty int) model.CartLine {
	return model.CartLine{
		ProductID: p.ID,
		Quantity:  qty,
		Product:   p,
	}
}

func discountCampaign(rule model.DiscountRule) *model.Campaign {
	return &model.Campaign{
		ID:       uuid.New(),
		Title:    catalogmodel.LocalizedText{En: "Test campaign"},
		Kind:     model.KindDiscount,
		Active:   true,
		StartAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		Discount: &rule,
	}
}

func buyGetCampaign(rule model.BuyGetRule) *model.Campaign {
	return &model.Campaign{
		ID:      uuid.New(),
		Title:   catalogmodel.LocalizedText{En: "Test campaign"},
		Kind:    model.KindBuyGet,
		Active:  true,
		StartAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		BuyGet:  &rule,
	}
}

// -------------------------------------------------------------------
// DISCOUNT CAMPAIGNS
// -------------------------------------------------------------------

func TestEvaluateCampaign_PercentageDiscount(t *testing.T) {
	p := newProduct("100.00", nil)
	lines := []model.CartLine{newLine(p, 3)}

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
	})

	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// 100 * 10% * 3 = 30
	assert.True(t, app.DiscountAmount.Equal(dec("30")), "got %s", app.DiscountAmount)
	assert.Equal(t, []uuid.UUID{p.ID}, app.AffectedProducts)
	assert.Empty(t, app.FreeItems)
	assert.False(t, app.IsTrivial())
}

func TestEvaluateCampaign_PercentageDiscount_MultipleLines(t *testing.T) {
	p1 := newProduct("100.00", nil)
	p2 := newProduct("40.00", nil)
	lines := []model.CartLine{newLine(p1, 1), newLine(p2, 2)}

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("25"),
	})

	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// 100*0.25 + 40*0.25*2 = 25 + 20 = 45
	assert.True(t, app.DiscountAmount.Equal(dec("45")), "got %s", app.DiscountAmount)
	assert.Equal(t, []uuid.UUID{p1.ID, p2.ID}, app.AffectedProducts)
}

func TestEvaluateCampaign_FixedDiscount_ClampedToUnitPrice(t *testing.T) {
	cheap := newProduct("3.00", nil)
	pricey := newProduct("50.00", nil)
	lines := []model.CartLine{newLine(cheap, 2), newLine(pricey, 1)}

	campaign := discountCampaign(model.DiscountRule{
		Type:   model.DiscountFixed,
		Amount: dec("5"),
	})

	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// cheap clamps to 3 per unit, pricey takes the full 5: 3*2 + 5 = 11
	assert.True(t, app.DiscountAmount.Equal(dec("11")), "got %s", app.DiscountAmount)
}

func TestEvaluateCampaign_WholesaleTierPricing(t *testing.T) {
	wholesale := "80.00"
	p := newProduct("100.00", &wholesale)
	lines := []model.CartLine{newLine(p, 1)}

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
	})

	retail := EvaluateCampaign(campaign, lines, model.TierRetail)
	ws := EvaluateCampaign(campaign, lines, model.TierWholesale)

	assert.True(t, retail.DiscountAmount.Equal(dec("10")))
	assert.True(t, ws.DiscountAmount.Equal(dec("8")))
}

func TestResolveUnitPrice_WholesaleFallback(t *testing.T) {
	// No wholesale price set: wholesale tier falls back to retail.
	p := newProduct("100.00", nil)
	assert.True(t, model.ResolveUnitPrice(p, model.TierWholesale).Equal(dec("100.00")))

	// Zero wholesale price is treated as unset.
	zero := "0"
	pz := newProduct("100.00", &zero)
	assert.True(t, model.ResolveUnitPrice(pz, model.TierWholesale).Equal(dec("100.00")))

	ws := "70.00"
	pw := newProduct("100.00", &ws)
	assert.True(t, model.ResolveUnitPrice(pw, model.TierWholesale).Equal(dec("70.00")))
	assert.True(t, model.ResolveUnitPrice(pw, model.TierRetail).Equal(dec("100.00")))
	assert.True(t, model.ResolveUnitPrice(pw, model.TierAdmin).Equal(dec("100.00")))
}

func TestEvaluateCampaign_MinQuantityThreshold(t *testing.T) {
	p := newProduct("10.00", nil)
	minQty := 5

	campaign := discountCampaign(model.DiscountRule{
		Type:        model.DiscountPercentage,
		Percentage:  dec("10"),
		MinQuantity: &minQty,
	})

	below := EvaluateCampaign(campaign, []model.CartLine{newLine(p, 4)}, model.TierRetail)
	assert.True(t, below.IsTrivial())

	at := EvaluateCampaign(campaign, []model.CartLine{newLine(p, 5)}, model.TierRetail)
	assert.True(t, at.DiscountAmount.Equal(dec("5")), "got %s", at.DiscountAmount)
}

func TestEvaluateCampaign_MinAmountThreshold(t *testing.T) {
	p := newProduct("30.00", nil)
	minAmount := dec("100")

	campaign := discountCampaign(model.DiscountRule{
		Type:      model.DiscountFixed,
		Amount:    dec("2"),
		MinAmount: &minAmount,
	})

	// 3 * 30 = 90 < 100
	below := EvaluateCampaign(campaign, []model.CartLine{newLine(p, 3)}, model.TierRetail)
	assert.True(t, below.IsTrivial())

	// 4 * 30 = 120 >= 100
	met := EvaluateCampaign(campaign, []model.CartLine{newLine(p, 4)}, model.TierRetail)
	assert.True(t, met.DiscountAmount.Equal(dec("8")), "got %s", met.DiscountAmount)
}

func TestEvaluateCampaign_MinAmountUsesTierPrices(t *testing.T) {
	wholesale := "20.00"
	p := newProduct("30.00", &wholesale)
	minAmount := dec("100")

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
		MinAmount:  &minAmount,
	})

	lines := []model.CartLine{newLine(p, 4)}

	// Retail: 4*30 = 120 passes. Wholesale: 4*20 = 80 does not.
	assert.False(t, EvaluateCampaign(campaign, lines, model.TierRetail).IsTrivial())
	assert.True(t, EvaluateCampaign(campaign, lines, model.TierWholesale).IsTrivial())
}

// -------------------------------------------------------------------
// BUY GET CAMPAIGNS
// -------------------------------------------------------------------

func TestEvaluateCampaign_BuyGetFree(t *testing.T) {
	linked := newProduct("25.00", nil)
	reward := newProduct("10.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: linked.ID,
		BuyQuantity:     2,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})

	lines := []model.CartLine{newLine(linked, 5)}
	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// floor(5/2) = 2 free units, no monetary discount
	assert.True(t, app.DiscountAmount.IsZero())
	assert.Equal(t, []uuid.UUID{linked.ID}, app.AffectedProducts)
	require.Len(t, app.FreeItems, 1)
	assert.Equal(t, reward.ID, app.FreeItems[0].ProductID)
	assert.Equal(t, 2, app.FreeItems[0].Quantity)
	assert.Equal(t, campaign.ID, app.FreeItems[0].CampaignID)
}

func TestEvaluateCampaign_BuyGetFree_ThresholdUnmet(t *testing.T) {
	linked := newProduct("25.00", nil)
	reward := newProduct("10.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: linked.ID,
		BuyQuantity:     3,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})

	app := EvaluateCampaign(campaign, []model.CartLine{newLine(linked, 2)}, model.TierRetail)
	assert.True(t, app.IsTrivial())
	assert.Empty(t, app.AffectedProducts)
}

func TestEvaluateCampaign_BuyGetZeroBuyQuantityTreatedAsOne(t *testing.T) {
	linked := newProduct("25.00", nil)
	reward := newProduct("10.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: linked.ID,
		BuyQuantity:     0,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})

	app := EvaluateCampaign(campaign, []model.CartLine{newLine(linked, 3)}, model.TierRetail)

	require.Len(t, app.FreeItems, 1)
	assert.Equal(t, 3, app.FreeItems[0].Quantity)
}

func TestEvaluateCampaign_BuyGetPercentageReward(t *testing.T) {
	linked := newProduct("25.00", nil)
	target := newProduct("40.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID:  linked.ID,
		BuyQuantity:      2,
		GetProductID:     target.ID,
		GetDiscountType:  model.DiscountPercentage,
		GetDiscountValue: dec("50"),
	})

	// floor(4/2) = 2 applicable, target has 3 units, discountable = min(3, 2) = 2
	lines := []model.CartLine{newLine(linked, 4), newLine(target, 3)}
	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// 40 * 50% * 2 = 40
	assert.True(t, app.DiscountAmount.Equal(dec("40")), "got %s", app.DiscountAmount)
	assert.Equal(t, []uuid.UUID{linked.ID, target.ID}, app.AffectedProducts)
	assert.Empty(t, app.FreeItems)
}

func TestEvaluateCampaign_BuyGetFixedReward_ClampedToUnitPrice(t *testing.T) {
	linked := newProduct("25.00", nil)
	target := newProduct("8.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID:  linked.ID,
		BuyQuantity:      1,
		GetProductID:     target.ID,
		GetDiscountType:  model.DiscountFixed,
		GetDiscountValue: dec("10"),
	})

	lines := []model.CartLine{newLine(linked, 1), newLine(target, 1)}
	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// reward 10 clamps to the 8 the unit costs
	assert.True(t, app.DiscountAmount.Equal(dec("8")), "got %s", app.DiscountAmount)
}

func TestEvaluateCampaign_BuyGetPaidReward_TargetAbsent(t *testing.T) {
	linked := newProduct("25.00", nil)
	target := newProduct("40.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID:  linked.ID,
		BuyQuantity:      1,
		GetProductID:     target.ID,
		GetDiscountType:  model.DiscountPercentage,
		GetDiscountValue: dec("50"),
	})

	// Target product not in the cart: nothing is added on the
	// shopper's behalf, the application is a no-op.
	app := EvaluateCampaign(campaign, []model.CartLine{newLine(linked, 5)}, model.TierRetail)
	assert.True(t, app.IsTrivial())
}

func TestEvaluateCampaign_BuyGetLinkedQuantitySummedAcrossVariants(t *testing.T) {
	linked := newProduct("25.00", nil)
	reward := newProduct("10.00", nil)

	variantA := uuid.New()
	variantB := uuid.New()
	lineA := newLine(linked, 2)
	lineA.VariantID = &variantA
	lineB := newLine(linked, 3)
	lineB.VariantID = &variantB

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID: linked.ID,
		BuyQuantity:     4,
		GetProductID:    reward.ID,
		GetDiscountType: model.DiscountFree,
	})

	app := EvaluateCampaign(campaign, []model.CartLine{lineA, lineB}, model.TierRetail)

	// 2 + 3 = 5 across variants, floor(5/4) = 1
	require.Len(t, app.FreeItems, 1)
	assert.Equal(t, 1, app.FreeItems[0].Quantity)
}

func TestEvaluateCampaign_BuyGetPercentageRewardClampedToUnitPrice(t *testing.T) {
	linked := newProduct("25.00", nil)
	target := newProduct("10.00", nil)

	campaign := buyGetCampaign(model.BuyGetRule{
		LinkedProductID:  linked.ID,
		BuyQuantity:      1,
		GetProductID:     target.ID,
		GetDiscountType:  model.DiscountPercentage,
		GetDiscountValue: dec("300"),
	})

	lines := []model.CartLine{newLine(linked, 1), newLine(target, 1)}
	app := EvaluateCampaign(campaign, lines, model.TierRetail)

	// 300% of 10 clamps to the 10 the unit costs.
	assert.True(t, app.DiscountAmount.Equal(dec("10")), "got %s", app.DiscountAmount)
}

func TestEvaluateCampaign_AffectedProductsDedupedAcrossVariants(t *testing.T) {
	p := newProduct("20.00", nil)

	variantA := uuid.New()
	variantB := uuid.New()
	lineA := newLine(p, 1)
	lineA.VariantID = &variantA
	lineB := newLine(p, 2)
	lineB.VariantID = &variantB

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
	})

	app := EvaluateCampaign(campaign, []model.CartLine{lineA, lineB}, model.TierRetail)

	assert.Equal(t, []uuid.UUID{p.ID}, app.AffectedProducts)
}

// -------------------------------------------------------------------
// GENERAL PROPERTIES
// -------------------------------------------------------------------

func TestEvaluateCampaign_DoesNotMutateLines(t *testing.T) {
	p := newProduct("100.00", nil)
	lines := []model.CartLine{newLine(p, 3)}
	before := lines[0]

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
	})

	_ = EvaluateCampaign(campaign, lines, model.TierRetail)

	assert.Equal(t, before, lines[0])
}

func TestEvaluateCampaign_Idempotent(t *testing.T) {
	p := newProduct("99.99", nil)
	lines := []model.CartLine{newLine(p, 7)}

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("12.5"),
	})

	first := EvaluateCampaign(campaign, lines, model.TierRetail)
	second := EvaluateCampaign(campaign, lines, model.TierRetail)

	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.Equal(t, first.FreeItems, second.FreeItems)
}

func TestEvaluateCampaign_SkipsLinesWithoutProduct(t *testing.T) {
	p := newProduct("100.00", nil)
	broken := model.CartLine{ProductID: uuid.New(), Quantity: 2, Product: nil}
	lines := []model.CartLine{newLine(p, 1), broken}

	campaign := discountCampaign(model.DiscountRule{
		Type:       model.DiscountPercentage,
		Percentage: dec("10"),
	})

	app := EvaluateCampaign(campaign, lines, model.TierRetail)
	assert.True(t, app.DiscountAmount.Equal(dec("10")), "got %s", app.DiscountAmount)
}

func TestCampaign_IsEligible_InclusiveBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	c := &model.Campaign{Active: true, StartAt: start, EndAt: end}

	assert.True(t, c.IsEligible(start))
	assert.True(t, c.IsEligible(end))
	assert.True(t, c.IsEligible(start.Add(12*time.Hour)))
	assert.False(t, c.IsEligible(start.Add(-time.Second)))
	assert.False(t, c.IsEligible(end.Add(time.Second)))

	c.Active = false
	assert.False(t, c.IsEligible(start.Add(12*time.Hour)))
}

func TestCampaign_Validate(t *testing.T) {
	t.Run("discount kind without rule", func(t *testing.T) {
		c := &model.Campaign{Kind: model.KindDiscount}
		assert.ErrorIs(t, c.Validate(), model.ErrCampaignMissingRule)
	})

	t.Run("buy_get missing product ids", func(t *testing.T) {
		c := &model.Campaign{
			Kind: model.KindBuyGet,
			BuyGet: &model.BuyGetRule{
				GetDiscountType: model.DiscountFree,
			},
		}
		assert.ErrorIs(t, c.Validate(), model.ErrCampaignMissingProduct)
	})

	t.Run("unknown kind", func(t *testing.T) {
		c := &model.Campaign{Kind: "mystery"}
		assert.ErrorIs(t, c.Validate(), model.ErrInvalidCampaignKind)
	})

	t.Run("valid discount campaign", func(t *testing.T) {
		c := discountCampaign(model.DiscountRule{Type: model.DiscountPercentage, Percentage: dec("10")})
		assert.NoError(t, c.Validate())
	})
}
