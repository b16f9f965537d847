package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly-app/storefront-backend/pkg/config"
)

func testConverter(t *testing.T) *LoyaltyConverter {
	t.Helper()
	conv, err := NewLoyaltyConverter(config.LoyaltyConfig{PointValue: "0.01", EarnPerAmount: "1"})
	require.NoError(t, err)
	return conv
}

func TestRedeemClampsToBalance(t *testing.T) {
	conv := testConverter(t)
	points, discount := conv.Redeem(500, 200, decimal.NewFromInt(50))
	assert.Equal(t, 200, points)
	assert.True(t, discount.Equal(decimal.NewFromInt(2)), "got %s", discount)
}

func TestRedeemClampsToSubtotal(t *testing.T) {
	conv := testConverter(t)
	// 1000 points would be 10.00, cart only holds 3.50
	points, discount := conv.Redeem(1000, 1000, decimal.RequireFromString("3.50"))
	assert.Equal(t, 350, points)
	assert.True(t, discount.Equal(decimal.RequireFromString("3.50")), "got %s", discount)
}

func TestRedeemNothingToBurn(t *testing.T) {
	conv := testConverter(t)
	points, discount := conv.Redeem(0, 100, decimal.NewFromInt(50))
	assert.Zero(t, points)
	assert.True(t, discount.IsZero())

	points, discount = conv.Redeem(100, 0, decimal.NewFromInt(50))
	assert.Zero(t, points)
	assert.True(t, discount.IsZero())
}

func TestEarnFloorsTotal(t *testing.T) {
	conv := testConverter(t)
	assert.Equal(t, 42, conv.Earn(decimal.RequireFromString("42.99")))
	assert.Equal(t, 0, conv.Earn(decimal.Zero))
}

func TestNewLoyaltyConverterRejectsBadRates(t *testing.T) {
	_, err := NewLoyaltyConverter(config.LoyaltyConfig{PointValue: "0", EarnPerAmount: "1"})
	assert.Error(t, err)
	_, err = NewLoyaltyConverter(config.LoyaltyConfig{PointValue: "0.01", EarnPerAmount: "abc"})
	assert.Error(t, err)
}
