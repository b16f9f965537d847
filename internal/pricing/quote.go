package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// PricingInfo is the derived price for one line. FinalPrice is per unit; for
// a clamped fixed_price promotion it is the blended average across promo and
// normal units, so it can be fractional even when the inputs are not.
type PricingInfo struct {
	BasePrice       decimal.Decimal      `json:"basePrice"`
	FinalPrice      decimal.Decimal      `json:"finalPrice"`
	TotalPrice      decimal.Decimal      `json:"totalPrice"`
	Savings         decimal.Decimal      `json:"savings"`
	IsPromotional   bool                 `json:"isPromotional"`
	PromotionID     *uuid.UUID           `json:"promotionId,omitempty"`
	PromotionType   *enums.PromotionType `json:"promotionType,omitempty"`
	PromotionName   string               `json:"promotionName,omitempty"`
	PromoUnits      int                  `json:"promoUnits"`
	NormalUnits     int                  `json:"normalUnits"`
	PromoUnitPrice  decimal.Decimal      `json:"promoUnitPrice"`
	NormalUnitPrice decimal.Decimal      `json:"normalUnitPrice"`
	BonusQty        int                  `json:"bonusQty"`
	Breakdown       string               `json:"breakdown,omitempty"`
}

// Quote prices quantity units against an optional promotion. It is pure:
// same inputs always produce the same PricingInfo, and no monetary output is
// ever negative.
func Quote(basePrice decimal.Decimal, quantity int, promo *models.Promotion) PricingInfo {
	base := clampMoney(basePrice)
	info := PricingInfo{
		BasePrice:       base,
		FinalPrice:      base,
		NormalUnitPrice: base,
		Savings:         zero,
		NormalUnits:     quantity,
	}
	if quantity <= 0 {
		info.NormalUnits = 0
		info.TotalPrice = zero
		return info
	}
	info.TotalPrice = base.Mul(decimal.NewFromInt(int64(quantity)))

	if promo == nil || !applies(promo, quantity) {
		return info
	}

	switch promo.Type {
	case enums.PromotionTypeFixedPrice:
		return quoteFixedPrice(base, quantity, promo)
	case enums.PromotionTypeBulkPurchase:
		return quoteBulkPurchase(base, quantity, promo)
	case enums.PromotionTypePercentageDiscount:
		return quotePercentageDiscount(base, quantity, promo)
	default:
		// assorted_items is priced by ComboQuote, never per line
		return info
	}
}

// applies reports whether the promotion covers the quantity. An unset MinQty
// behaves as 1.
func applies(promo *models.Promotion, quantity int) bool {
	minQty := promo.MinQty
	if minQty <= 0 {
		minQty = 1
	}
	return quantity >= minQty
}

func quoteFixedPrice(base decimal.Decimal, quantity int, promo *models.Promotion) PricingInfo {
	promoPrice := clampMoney(promo.Value)

	promoUnits := quantity
	normalUnits := 0
	if promo.MaxQty != nil && quantity > *promo.MaxQty {
		promoUnits = *promo.MaxQty
		normalUnits = quantity - *promo.MaxQty
	}

	total := promoPrice.Mul(decimal.NewFromInt(int64(promoUnits))).
		Add(base.Mul(decimal.NewFromInt(int64(normalUnits))))
	final := total.Div(decimal.NewFromInt(int64(quantity)))
	savings := clampMoney(base.Sub(promoPrice).Mul(decimal.NewFromInt(int64(promoUnits))))

	breakdown := fmt.Sprintf("%d × %s", promoUnits, promoPrice.String())
	if normalUnits > 0 {
		breakdown += fmt.Sprintf(" + %d × %s", normalUnits, base.String())
	}

	return PricingInfo{
		BasePrice:       base,
		FinalPrice:      clampMoney(final),
		TotalPrice:      clampMoney(total),
		Savings:         savings,
		IsPromotional:   true,
		PromotionID:     promoRef(promo),
		PromotionType:   promoType(promo),
		PromotionName:   promo.Name,
		PromoUnits:      promoUnits,
		NormalUnits:     normalUnits,
		PromoUnitPrice:  promoPrice,
		NormalUnitPrice: base,
		Breakdown:       breakdown,
	}
}

func quoteBulkPurchase(base decimal.Decimal, quantity int, promo *models.Promotion) PricingInfo {
	if promo.RequiredQty == nil || *promo.RequiredQty <= 0 || promo.FreeQty == nil || *promo.FreeQty <= 0 {
		return Quote(base, quantity, nil)
	}
	required := int64(*promo.RequiredQty)
	free := int64(*promo.FreeQty)

	effective := base.Mul(decimal.NewFromInt(required)).
		Div(decimal.NewFromInt(required + free))
	effective = clampMoney(effective)
	savings := clampMoney(base.Sub(effective))
	bonus := quantity / int(required) * int(free)

	return PricingInfo{
		BasePrice:       base,
		FinalPrice:      effective,
		TotalPrice:      effective.Mul(decimal.NewFromInt(int64(quantity))),
		Savings:         savings,
		IsPromotional:   true,
		PromotionID:     promoRef(promo),
		PromotionType:   promoType(promo),
		PromotionName:   promo.Name,
		PromoUnits:      quantity,
		PromoUnitPrice:  effective,
		NormalUnitPrice: base,
		BonusQty:        bonus,
		Breakdown:       fmt.Sprintf("%d × %s", quantity, effective.String()),
	}
}

func quotePercentageDiscount(base decimal.Decimal, quantity int, promo *models.Promotion) PricingInfo {
	percent := promo.Value
	if percent.IsNegative() {
		percent = zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	final := clampMoney(base.Mul(hundred.Sub(percent)).Div(hundred))
	savings := clampMoney(base.Sub(final))

	return PricingInfo{
		BasePrice:       base,
		FinalPrice:      final,
		TotalPrice:      final.Mul(decimal.NewFromInt(int64(quantity))),
		Savings:         savings,
		IsPromotional:   true,
		PromotionID:     promoRef(promo),
		PromotionType:   promoType(promo),
		PromotionName:   promo.Name,
		PromoUnits:      quantity,
		PromoUnitPrice:  final,
		NormalUnitPrice: base,
		Breakdown:       fmt.Sprintf("%d × %s", quantity, final.String()),
	}
}

// ActiveAt filters promos down to those live at the given instant.
func ActiveAt(promos []models.Promotion, now time.Time) []models.Promotion {
	out := make([]models.Promotion, 0, len(promos))
	for _, p := range promos {
		if p.InWindow(now) {
			out = append(out, p)
		}
	}
	return out
}

func clampMoney(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return zero
	}
	return v
}

func promoRef(promo *models.Promotion) *uuid.UUID {
	id := promo.ID
	return &id
}

func promoType(promo *models.Promotion) *enums.PromotionType {
	t := promo.Type
	return &t
}
