package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly-app/storefront-backend/pkg/config"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

func testShippingConfig() config.ShippingConfig {
	return config.ShippingConfig{
		OriginLat:        40.7128,
		OriginLng:        -74.0060,
		BaseFee:          "2.50",
		PerKmFee:         "0.40",
		FreeOverSubtotal: "75",
		MaxRadiusKM:      25,
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// lower Manhattan to JFK, roughly 21 km
	km := HaversineKM(40.7128, -74.0060, 40.6413, -73.7781)
	assert.InDelta(t, 21.0, km, 1.5)
}

func TestShippingQuoteBandedFee(t *testing.T) {
	calc, err := NewShippingCalc(testShippingConfig())
	require.NoError(t, err)

	addr := types.Address{
		Line1: "123 Court St", City: "Brooklyn", PostalCode: "11201",
		Lat: 40.6892, Lng: -73.9910,
	}
	fee, km, err := calc.Quote(addr, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, km.GreaterThan(decimal.Zero))
	// base fee plus per-km on the rounded distance
	expected := decimal.RequireFromString("2.50").
		Add(decimal.RequireFromString("0.40").Mul(km)).Round(2)
	assert.True(t, fee.Equal(expected), "fee %s expected %s", fee, expected)
}

func TestShippingQuoteFreeOverThreshold(t *testing.T) {
	calc, err := NewShippingCalc(testShippingConfig())
	require.NoError(t, err)

	addr := types.Address{Line1: "x", City: "y", PostalCode: "z", Lat: 40.69, Lng: -73.99}
	fee, _, err := calc.Quote(addr, decimal.NewFromInt(75))
	require.NoError(t, err)
	assert.True(t, fee.IsZero())
}

func TestShippingQuoteBeyondRadius(t *testing.T) {
	calc, err := NewShippingCalc(testShippingConfig())
	require.NoError(t, err)

	// Philadelphia, ~130 km away
	addr := types.Address{Line1: "x", City: "y", PostalCode: "z", Lat: 39.9526, Lng: -75.1652}
	_, _, err = calc.Quote(addr, decimal.NewFromInt(40))
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestNewShippingCalcRejectsBadConfig(t *testing.T) {
	cfg := testShippingConfig()
	cfg.BaseFee = "not-a-number"
	_, err := NewShippingCalc(cfg)
	assert.Error(t, err)

	cfg = testShippingConfig()
	cfg.MaxRadiusKM = 0
	_, err = NewShippingCalc(cfg)
	assert.Error(t, err)
}
