package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID       `gorm:"column:customer_id;type:uuid;index"`
	SessionID  string           `gorm:"column:session_id;index"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem freezes the price at the moment the line was added or last
// changed. UnitPrice, FinalPrice and the promotion columns are snapshots;
// later catalog or promotion edits never move an existing line.
type CartItem struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID   `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID     uuid.UUID   `gorm:"column:product_id;type:uuid;not null"`
	Product       Product     `gorm:"foreignKey:ProductID"`
	ProductUnitID uuid.UUID   `gorm:"column:product_unit_id;type:uuid;not null"`
	ProductUnit   ProductUnit `gorm:"foreignKey:ProductUnitID"`
	Quantity      int         `gorm:"column:quantity;not null"`

	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	FinalPrice decimal.Decimal `gorm:"column:final_price;type:numeric(12,4);not null"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Savings    decimal.Decimal `gorm:"column:savings;type:numeric(12,2);not null;default:0"`

	PromotionID   *uuid.UUID `gorm:"column:promotion_id;type:uuid"`
	PromotionType *string    `gorm:"column:promotion_type"`
	PromotionName *string    `gorm:"column:promotion_name"`
	BonusQty      int        `gorm:"column:bonus_qty;not null;default:0"`
	Breakdown     *string    `gorm:"column:breakdown"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
