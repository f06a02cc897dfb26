package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBuyGetInput() BuyGetRuleInput {
	return BuyGetRuleInput{
		LinkedProductID:  "8f14e45f-ceea-467f-a9d4-1f5c2d3e4a5b",
		BuyQuantity:      2,
		GetProductID:     "c9f0f895-fb98-4b91-8b3e-5a6c7d8e9f0a",
		GetDiscountType:  DiscountPercentage,
		GetDiscountValue: 50,
	}
}

func TestBuyGetRuleInput_Validate(t *testing.T) {
	t.Run("accepts percentage reward up to 100", func(t *testing.T) {
		in := validBuyGetInput()
		in.GetDiscountValue = 100
		require.NoError(t, in.Validate())
	})

	t.Run("rejects percentage reward above 100", func(t *testing.T) {
		in := validBuyGetInput()
		in.GetDiscountValue = 300
		assert.Error(t, in.Validate())
	})

	t.Run("fixed reward is not capped at 100", func(t *testing.T) {
		in := validBuyGetInput()
		in.GetDiscountType = DiscountFixed
		in.GetDiscountValue = 250
		require.NoError(t, in.Validate())
	})

	t.Run("free reward needs no value", func(t *testing.T) {
		in := validBuyGetInput()
		in.GetDiscountType = DiscountFree
		in.GetDiscountValue = 0
		require.NoError(t, in.Validate())
	})
}
