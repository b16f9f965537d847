package enums

import "fmt"

// PromotionType identifies how a promotion's discount is computed.
type PromotionType string

const (
	PromotionTypeFixedPrice         PromotionType = "fixed_price"
	PromotionTypeBulkPurchase       PromotionType = "bulk_purchase"
	PromotionTypePercentageDiscount PromotionType = "percentage_discount"
	PromotionTypeAssortedItems      PromotionType = "assorted_items"
)

var validPromotionTypes = []PromotionType{
	PromotionTypeFixedPrice,
	PromotionTypeBulkPurchase,
	PromotionTypePercentageDiscount,
	PromotionTypeAssortedItems,
}

// String implements fmt.Stringer.
func (p PromotionType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionType.
func (p PromotionType) IsValid() bool {
	for _, candidate := range validPromotionTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionType converts raw input into a PromotionType.
func ParsePromotionType(value string) (PromotionType, error) {
	for _, candidate := range validPromotionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion type %q", value)
}
