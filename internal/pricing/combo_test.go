package pricing

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

func comboPromo(value string, required int, perItem *string) models.Promotion {
	p := models.Promotion{
		ID:                uuid.New(),
		Name:              "family pack",
		Type:              enums.PromotionTypeAssortedItems,
		Value:             dec(value),
		RequiredItemCount: &required,
	}
	if perItem != nil {
		d := dec(*perItem)
		p.PricePerItem = &d
	}
	return p
}

func TestComboQuoteStates(t *testing.T) {
	promo := comboPromo("50", 5, nil)
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		sel       ComboSelection
		wantState enums.ComboSelectionState
		wantTotal string
	}{
		{"empty selection is idle", ComboSelection{}, enums.ComboStateIdle, "0"},
		{"partial selection is selecting", ComboSelection{a: 2}, enums.ComboStateSelecting, "0"},
		{"exact count is ready at flat value", ComboSelection{a: 3, b: 2}, enums.ComboStateReady, "50"},
		{"overflow charges per item", ComboSelection{a: 4, b: 3}, enums.ComboStateExceeded, "70"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComboQuote(promo, tc.sel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.State != tc.wantState {
				t.Errorf("state: want %s got %s", tc.wantState, got.State)
			}
			if !got.Total.Equal(dec(tc.wantTotal)) {
				t.Errorf("total: want %s got %s", tc.wantTotal, got.Total)
			}
		})
	}
}

func TestComboQuoteMissingCount(t *testing.T) {
	promo := comboPromo("50", 5, nil)
	got, err := ComboQuote(promo, ComboSelection{uuid.New(): 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ItemsMissing != 2 {
		t.Fatalf("expected 2 missing, got %d", got.ItemsMissing)
	}
	if got.AllowsCheckout() {
		t.Fatalf("partial selection must not allow checkout")
	}
}

func TestComboQuoteExplicitPerItemPrice(t *testing.T) {
	perItem := "12"
	promo := comboPromo("50", 5, &perItem)
	got, err := ComboQuote(promo, ComboSelection{uuid.New(): 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Total.Equal(dec("62")) {
		t.Fatalf("expected 50 + 1*12 = 62, got %s", got.Total)
	}
	if !got.AllowsCheckout() {
		t.Fatalf("exceeded state must allow checkout")
	}
}

func TestComboQuoteRejectsWrongType(t *testing.T) {
	promo := models.Promotion{Type: enums.PromotionTypeFixedPrice, Name: "not a combo"}
	if _, err := ComboQuote(promo, ComboSelection{}); err == nil {
		t.Fatalf("expected validation error for non-combo promotion")
	}
}

func TestComboSelectionOps(t *testing.T) {
	sel := ComboSelection{}
	p := uuid.New()

	sel.Select(p)
	if sel[p] != 1 {
		t.Fatalf("select should set qty 1")
	}
	sel.Increment(p)
	sel.Increment(p)
	if sel[p] != 3 {
		t.Fatalf("expected qty 3, got %d", sel[p])
	}
	sel.Decrement(p)
	if sel[p] != 2 {
		t.Fatalf("expected qty 2, got %d", sel[p])
	}
	sel.Decrement(p)
	sel.Decrement(p)
	if _, ok := sel[p]; ok {
		t.Fatalf("decrement to zero should remove the entry")
	}
	sel.Decrement(p) // no-op, never negative
	if _, ok := sel[p]; ok {
		t.Fatalf("decrement on absent entry must stay absent")
	}
}

type stockMap map[uuid.UUID]int

func (m stockMap) StockFor(id uuid.UUID) (int, bool) {
	v, ok := m[id]
	return v, ok
}

func TestValidateStock(t *testing.T) {
	inStock, lowStock := uuid.New(), uuid.New()
	stock := stockMap{inStock: 10, lowStock: 1}

	if err := ValidateStock(ComboSelection{inStock: 5, lowStock: 1}, stock); err != nil {
		t.Fatalf("unexpected violation: %v", err)
	}

	err := ValidateStock(ComboSelection{inStock: 11, lowStock: 3}, stock)
	if err == nil {
		t.Fatalf("expected stock violations")
	}
	if len(multierr.Errors(err)) != 2 {
		t.Fatalf("expected one error per violating product, got %v", err)
	}
	if !strings.Contains(err.Error(), lowStock.String()) {
		t.Fatalf("error should name the violating product: %v", err)
	}
}
