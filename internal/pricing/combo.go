package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	apperrors "github.com/grocerly-app/storefront-backend/pkg/errors"
)

// ComboSelection tracks per-product quantities while a shopper assembles an
// assorted_items bundle.
type ComboSelection map[uuid.UUID]int

// ComboResult is the priced state of a combo selection.
type ComboResult struct {
	State         enums.ComboSelectionState `json:"state"`
	ItemsSelected int                       `json:"itemsSelected"`
	ItemsRequired int                       `json:"itemsRequired"`
	ItemsMissing  int                       `json:"itemsMissing"`
	OverflowItems int                       `json:"overflowItems"`
	Total         decimal.Decimal           `json:"total"`
	PerItemPrice  decimal.Decimal           `json:"perItemPrice"`
}

// AllowsCheckout reports whether the selection can move to the cart.
func (r ComboResult) AllowsCheckout() bool {
	return r.State.AllowsCheckout()
}

// ComboQuote prices an assorted_items selection. Below the required count
// there is no price yet; at the count the flat combo value applies; above it
// each extra item is charged at the per-item rate (explicit pricePerItem, or
// value divided by the required count).
func ComboQuote(promo models.Promotion, selections ComboSelection) (ComboResult, error) {
	if promo.Type != enums.PromotionTypeAssortedItems {
		return ComboResult{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("promotion %q is not an assorted items combo", promo.Name))
	}
	if promo.RequiredItemCount == nil || *promo.RequiredItemCount <= 0 {
		return ComboResult{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("promotion %q has no required item count", promo.Name))
	}
	required := *promo.RequiredItemCount

	total := 0
	for _, qty := range selections {
		if qty < 0 {
			return ComboResult{}, apperrors.New(apperrors.CodeValidation, "selection quantity cannot be negative")
		}
		total += qty
	}

	perItem := clampMoney(promo.Value).Div(decimal.NewFromInt(int64(required)))
	if promo.PricePerItem != nil {
		perItem = clampMoney(*promo.PricePerItem)
	}

	result := ComboResult{
		ItemsSelected: total,
		ItemsRequired: required,
		PerItemPrice:  perItem,
		Total:         zero,
	}

	switch {
	case total == 0:
		result.State = enums.ComboStateIdle
		result.ItemsMissing = required
	case total < required:
		result.State = enums.ComboStateSelecting
		result.ItemsMissing = required - total
	case total == required:
		result.State = enums.ComboStateReady
		result.Total = clampMoney(promo.Value)
	default:
		overflow := total - required
		result.State = enums.ComboStateExceeded
		result.OverflowItems = overflow
		result.Total = clampMoney(promo.Value).
			Add(perItem.Mul(decimal.NewFromInt(int64(overflow))))
	}
	return result, nil
}

// Select sets a product's quantity to one, the entry point for a tap on a
// combo card.
func (s ComboSelection) Select(productID uuid.UUID) {
	s[productID] = 1
}

// Increment bumps a product's quantity by one.
func (s ComboSelection) Increment(productID uuid.UUID) {
	s[productID]++
}

// Decrement lowers a product's quantity, removing the entry at zero.
// Quantities never go negative.
func (s ComboSelection) Decrement(productID uuid.UUID) {
	qty, ok := s[productID]
	if !ok {
		return
	}
	if qty <= 1 {
		delete(s, productID)
		return
	}
	s[productID] = qty - 1
}

// ComboStockProvider exposes the available stock per product.
type ComboStockProvider interface {
	StockFor(productID uuid.UUID) (int, bool)
}

// ValidateStock checks every selected quantity against available stock and
// aggregates one validation error per violating product.
func ValidateStock(selections ComboSelection, stock ComboStockProvider) error {
	var errs error
	for productID, qty := range selections {
		available, ok := stock.StockFor(productID)
		if !ok {
			errs = multierr.Append(errs, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("product %s is not part of this combo", productID)))
			continue
		}
		if qty > available {
			errs = multierr.Append(errs, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("product %s has only %d in stock, %d selected", productID, available, qty)))
		}
	}
	return errs
}
