package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int { return &v }

func fixedPricePromo(value string, minQty int, maxQty *int) *models.Promotion {
	return &models.Promotion{
		ID:     uuid.New(),
		Name:   "fixed",
		Type:   enums.PromotionTypeFixedPrice,
		Value:  dec(value),
		MinQty: minQty,
		MaxQty: maxQty,
	}
}

func TestQuoteNoPromotion(t *testing.T) {
	info := Quote(dec("10"), 3, nil)
	if info.IsPromotional {
		t.Fatalf("expected non-promotional quote")
	}
	if !info.FinalPrice.Equal(dec("10")) {
		t.Fatalf("expected final 10, got %s", info.FinalPrice)
	}
	if !info.TotalPrice.Equal(dec("30")) {
		t.Fatalf("expected total 30, got %s", info.TotalPrice)
	}
	if !info.Savings.IsZero() {
		t.Fatalf("expected zero savings, got %s", info.Savings)
	}
}

func TestQuoteFixedPrice(t *testing.T) {
	tests := []struct {
		name        string
		base        string
		qty         int
		promo       *models.Promotion
		wantFinal   string
		wantSavings string
		wantPromo   int
		wantNormal  int
		wantBreak   string
	}{
		{
			name:        "within clamp all units at promo price",
			base:        "10",
			qty:         5,
			promo:       fixedPricePromo("7", 1, intPtr(5)),
			wantFinal:   "7",
			wantSavings: "15",
			wantPromo:   5,
			wantNormal:  0,
			wantBreak:   "5 × 7",
		},
		{
			name:        "above clamp blends promo and base",
			base:        "10",
			qty:         8,
			promo:       fixedPricePromo("7", 1, intPtr(5)),
			wantFinal:   "8.125",
			wantSavings: "15",
			wantPromo:   5,
			wantNormal:  3,
			wantBreak:   "5 × 7 + 3 × 10",
		},
		{
			name:        "no clamp means every unit promo priced",
			base:        "10",
			qty:         12,
			promo:       fixedPricePromo("7", 1, nil),
			wantFinal:   "7",
			wantSavings: "36",
			wantPromo:   12,
			wantNormal:  0,
			wantBreak:   "12 × 7",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := Quote(dec(tc.base), tc.qty, tc.promo)
			if !info.IsPromotional {
				t.Fatalf("expected promotional quote")
			}
			if !info.FinalPrice.Equal(dec(tc.wantFinal)) {
				t.Errorf("final: want %s got %s", tc.wantFinal, info.FinalPrice)
			}
			if !info.Savings.Equal(dec(tc.wantSavings)) {
				t.Errorf("savings: want %s got %s", tc.wantSavings, info.Savings)
			}
			if info.PromoUnits != tc.wantPromo || info.NormalUnits != tc.wantNormal {
				t.Errorf("units: want %d/%d got %d/%d", tc.wantPromo, tc.wantNormal, info.PromoUnits, info.NormalUnits)
			}
			if info.Breakdown != tc.wantBreak {
				t.Errorf("breakdown: want %q got %q", tc.wantBreak, info.Breakdown)
			}
		})
	}
}

func TestQuoteBelowMinQtyIgnoresPromotion(t *testing.T) {
	promo := fixedPricePromo("7", 6, nil)
	info := Quote(dec("10"), 5, promo)
	if info.IsPromotional {
		t.Fatalf("promotion should not apply below min qty")
	}
	if !info.FinalPrice.Equal(dec("10")) {
		t.Fatalf("expected base price, got %s", info.FinalPrice)
	}
}

func TestQuoteBulkPurchase(t *testing.T) {
	promo := &models.Promotion{
		ID:          uuid.New(),
		Name:        "bulk",
		Type:        enums.PromotionTypeBulkPurchase,
		Value:       dec("0"),
		MinQty:      1,
		RequiredQty: intPtr(3),
		FreeQty:     intPtr(1),
	}
	info := Quote(dec("20"), 4, promo)
	if !info.FinalPrice.Equal(dec("15")) {
		t.Fatalf("expected effective price 15, got %s", info.FinalPrice)
	}
	if !info.Savings.Equal(dec("5")) {
		t.Fatalf("expected savings 5 per unit, got %s", info.Savings)
	}
	if info.BonusQty != 1 {
		t.Fatalf("expected 1 bonus unit for 4 purchased, got %d", info.BonusQty)
	}
}

func TestQuoteBulkPurchaseMissingParamsFallsBack(t *testing.T) {
	promo := &models.Promotion{
		ID:     uuid.New(),
		Type:   enums.PromotionTypeBulkPurchase,
		MinQty: 1,
	}
	info := Quote(dec("20"), 4, promo)
	if info.IsPromotional {
		t.Fatalf("bulk promo without required/free qty must not apply")
	}
}

func TestQuotePercentageDiscount(t *testing.T) {
	promo := &models.Promotion{
		ID:     uuid.New(),
		Name:   "pct",
		Type:   enums.PromotionTypePercentageDiscount,
		Value:  dec("25"),
		MinQty: 1,
	}
	info := Quote(dec("8"), 2, promo)
	if !info.FinalPrice.Equal(dec("6")) {
		t.Fatalf("expected final 6, got %s", info.FinalPrice)
	}
	if !info.TotalPrice.Equal(dec("12")) {
		t.Fatalf("expected total 12, got %s", info.TotalPrice)
	}
}

func TestQuoteNeverNegative(t *testing.T) {
	over := fixedPricePromo("15", 1, nil)
	info := Quote(dec("10"), 2, over)
	if info.Savings.IsNegative() {
		t.Fatalf("savings went negative: %s", info.Savings)
	}

	pct := &models.Promotion{
		ID:     uuid.New(),
		Type:   enums.PromotionTypePercentageDiscount,
		Value:  dec("150"),
		MinQty: 1,
	}
	info = Quote(dec("10"), 1, pct)
	if info.FinalPrice.IsNegative() || info.TotalPrice.IsNegative() {
		t.Fatalf("price went negative: %s", info.FinalPrice)
	}
}

func TestQuoteIsIdempotent(t *testing.T) {
	promo := fixedPricePromo("7", 1, intPtr(5))
	first := Quote(dec("10"), 8, promo)
	second := Quote(dec("10"), 8, promo)
	if !first.FinalPrice.Equal(second.FinalPrice) ||
		!first.Savings.Equal(second.Savings) ||
		first.Breakdown != second.Breakdown {
		t.Fatalf("repeated quote diverged: %+v vs %+v", first, second)
	}
}

func TestQuoteZeroQuantity(t *testing.T) {
	info := Quote(dec("10"), 0, fixedPricePromo("7", 1, nil))
	if info.IsPromotional {
		t.Fatalf("zero quantity must not be promotional")
	}
	if !info.TotalPrice.IsZero() {
		t.Fatalf("expected zero total, got %s", info.TotalPrice)
	}
}
