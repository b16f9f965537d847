package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

// Promotion is a time-boxed pricing rule. The meaning of Value depends on
// Type: the promo unit price for fixed_price, the discount percent for
// percentage_discount, and the flat bundle price for assorted_items.
// A promotion scoped to a unit carries ProductUnitID; one scoped to a whole
// product leaves it nil and applies to any of the product's units.
type Promotion struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Type          enums.PromotionType `gorm:"column:type;not null"`
	ProductID     *uuid.UUID          `gorm:"column:product_id;type:uuid;index"`
	ProductUnitID *uuid.UUID          `gorm:"column:product_unit_id;type:uuid;index"`
	ProductUnit   *ProductUnit        `gorm:"foreignKey:ProductUnitID"`
	Value         decimal.Decimal     `gorm:"column:value;type:numeric(12,2);not null"`
	MinQty        int                 `gorm:"column:min_qty;not null;default:1"`
	MaxQty        *int                `gorm:"column:max_qty"`

	// bulk_purchase: buy RequiredQty, receive RequiredQty+FreeQty.
	RequiredQty *int `gorm:"column:required_qty"`
	FreeQty     *int `gorm:"column:free_qty"`

	// assorted_items: any RequiredItemCount eligible items for Value.
	RequiredItemCount *int             `gorm:"column:required_item_count"`
	PricePerItem      *decimal.Decimal `gorm:"column:price_per_item;type:numeric(12,2)"`
	EligibleProducts  []Product        `gorm:"many2many:promotion_products"`

	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// InWindow reports whether the promotion is live at the given instant.
func (p Promotion) InWindow(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) {
		return false
	}
	if now.After(p.EndDate) {
		return false
	}
	return true
}
