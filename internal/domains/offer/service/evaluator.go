package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/offer/model"
)

// EvaluateCampaign applies one campaign to a cart and returns what it
// would change. Pure: no I/O, no mutation of the input lines. Campaigns
// never see each other's output, every evaluation runs against the
// original cart.
func EvaluateCampaign(c *model.Campaign, lines []model.CartLine, tier model.PricingTier) model.OfferApplication {
	app := model.OfferApplication{
		CampaignID:     c.ID,
		CampaignTitle:  c.Title,
		Kind:           c.Kind,
		DiscountAmount: decimal.Zero,
	}

	switch c.Kind {
	case model.KindDiscount:
		if c.Discount != nil {
			app.DiscountAmount, app.AffectedProducts = evaluateDiscount(c.Discount, lines, tier)
		}
	case model.KindBuyGet:
		if c.BuyGet != nil {
			app.DiscountAmount, app.FreeItems, app.AffectedProducts = evaluateBuyGet(c.ID, c.BuyGet, lines, tier)
		}
	}

	if app.DiscountAmount.IsNegative() {
		app.DiscountAmount = decimal.Zero
	}

	return app
}

// cartTotals sums quantity and tier-priced amount over the whole cart.
func cartTotals(lines []model.CartLine, tier model.PricingTier) (int, decimal.Decimal) {
	quantity := 0
	amount := decimal.Zero
	for i := range lines {
		line := &lines[i]
		if line.Product == nil || line.Quantity <= 0 {
			continue
		}
		quantity += line.Quantity
		unit := model.ResolveUnitPrice(line.Product, tier)
		amount = amount.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return quantity, amount
}

// productQuantity sums the quantity of one product across all its
// variant lines.
func productQuantity(lines []model.CartLine, productID uuid.UUID) int {
	total := 0
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].Quantity > 0 {
			total += lines[i].Quantity
		}
	}
	return total
}

// evaluateDiscount applies a cart-wide discount per unit of every line.
// Thresholds gate the whole campaign, not individual lines. Every line
// that receives a positive discount marks its product id as affected,
// deduplicated across variant lines.
func evaluateDiscount(rule *model.DiscountRule, lines []model.CartLine, tier model.PricingTier) (decimal.Decimal, []uuid.UUID) {
	totalQty, totalAmount := cartTotals(lines, tier)

	if rule.MinQuantity != nil && totalQty < *rule.MinQuantity {
		return decimal.Zero, nil
	}
	if rule.MinAmount != nil && totalAmount.LessThan(*rule.MinAmount) {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	var affected []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for i := range lines {
		line := &lines[i]
		if line.Product == nil || line.Quantity <= 0 {
			continue
		}

		unitPrice := model.ResolveUnitPrice(line.Product, tier)

		var perUnit decimal.Decimal
		switch rule.Type {
		case model.DiscountPercentage:
			perUnit = unitPrice.Mul(rule.Percentage).Div(decimal.NewFromInt(100))
		case model.DiscountFixed:
			perUnit = rule.Amount
		default:
			continue
		}
		// A per-unit discount never exceeds what the unit costs.
		if perUnit.GreaterThan(unitPrice) {
			perUnit = unitPrice
		}

		if perUnit.IsPositive() && !seen[line.ProductID] {
			seen[line.ProductID] = true
			affected = append(affected, line.ProductID)
		}

		total = total.Add(perUnit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return total, affected
}

// evaluateBuyGet rewards purchases of the linked product. A buy
// quantity of zero is treated as one so legacy campaigns keep firing
// per unit bought. Once the campaign fires, the linked product is
// marked affected regardless of reward type so the storefront can
// badge the line that earned the reward.
func evaluateBuyGet(
	campaignID uuid.UUID,
	rule *model.BuyGetRule,
	lines []model.CartLine,
	tier model.PricingTier,
) (decimal.Decimal, []model.FreeItemGrant, []uuid.UUID) {
	linkedQty := productQuantity(lines, rule.LinkedProductID)
	if linkedQty <= 0 {
		return decimal.Zero, nil, nil
	}

	buyQty := rule.BuyQuantity
	if buyQty < 1 {
		buyQty = 1
	}

	applicableTimes := linkedQty / buyQty
	if applicableTimes <= 0 {
		return decimal.Zero, nil, nil
	}

	affected := []uuid.UUID{rule.LinkedProductID}

	if rule.GetDiscountType == model.DiscountFree {
		grant := model.FreeItemGrant{
			CampaignID: campaignID,
			ProductID:  rule.GetProductID,
			Quantity:   applicableTimes,
		}
		return decimal.Zero, []model.FreeItemGrant{grant}, affected
	}

	// Percentage and fixed rewards only discount units already in the
	// cart. Nothing is added on the shopper's behalf.
	total := decimal.Zero
	remaining := applicableTimes
	targetHit := false
	for i := range lines {
		if remaining <= 0 {
			break
		}
		line := &lines[i]
		if line.ProductID != rule.GetProductID || line.Product == nil || line.Quantity <= 0 {
			continue
		}

		discountableQty := line.Quantity
		if discountableQty > remaining {
			discountableQty = remaining
		}
		remaining -= discountableQty

		unitPrice := model.ResolveUnitPrice(line.Product, tier)

		var perUnit decimal.Decimal
		switch rule.GetDiscountType {
		case model.DiscountPercentage:
			perUnit = unitPrice.Mul(rule.GetDiscountValue).Div(decimal.NewFromInt(100))
		case model.DiscountFixed:
			perUnit = rule.GetDiscountValue
		default:
			return decimal.Zero, nil, nil
		}
		// The reward never exceeds the target line's own value.
		if perUnit.GreaterThan(unitPrice) {
			perUnit = unitPrice
		}

		targetHit = true
		total = total.Add(perUnit.Mul(decimal.NewFromInt(int64(discountableQty))))
	}

	if targetHit {
		affected = append(affected, rule.GetProductID)
	}

	return total, nil, affected
}
