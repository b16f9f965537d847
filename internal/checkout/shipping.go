package checkout

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/config"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ShippingCalc prices delivery from the store origin to a customer address.
type ShippingCalc struct {
	originLat   float64
	originLng   float64
	baseFee     decimal.Decimal
	perKmFee    decimal.Decimal
	freeOver    decimal.Decimal
	maxRadiusKM float64
}

// NewShippingCalc parses the configured rates once at startup.
func NewShippingCalc(cfg config.ShippingConfig) (*ShippingCalc, error) {
	baseFee, err := decimal.NewFromString(cfg.BaseFee)
	if err != nil {
		return nil, fmt.Errorf("parsing shipping base fee: %w", err)
	}
	perKm, err := decimal.NewFromString(cfg.PerKmFee)
	if err != nil {
		return nil, fmt.Errorf("parsing shipping per-km fee: %w", err)
	}
	freeOver, err := decimal.NewFromString(cfg.FreeOverSubtotal)
	if err != nil {
		return nil, fmt.Errorf("parsing free shipping threshold: %w", err)
	}
	if cfg.MaxRadiusKM <= 0 {
		return nil, fmt.Errorf("shipping max radius must be positive")
	}
	return &ShippingCalc{
		originLat:   cfg.OriginLat,
		originLng:   cfg.OriginLng,
		baseFee:     baseFee,
		perKmFee:    perKm,
		freeOver:    freeOver,
		maxRadiusKM: cfg.MaxRadiusKM,
	}, nil
}

// Quote returns the delivery fee and the distance. Addresses beyond the
// delivery radius are a validation error; subtotals at or above the free
// threshold ship for nothing.
func (c *ShippingCalc) Quote(addr types.Address, subtotal decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	km := HaversineKM(c.originLat, c.originLng, addr.Lat, addr.Lng)
	distance := decimal.NewFromFloat(km).Round(2)
	if km > c.maxRadiusKM {
		return decimal.Zero, distance, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("delivery address is %.1f km away, beyond the %.0f km delivery radius", km, c.maxRadiusKM))
	}
	if subtotal.GreaterThanOrEqual(c.freeOver) {
		return decimal.Zero, distance, nil
	}
	fee := c.baseFee.Add(c.perKmFee.Mul(distance)).Round(2)
	return fee, distance, nil
}
