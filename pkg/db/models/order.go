package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/enums"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number     string            `gorm:"column:number;uniqueIndex;not null"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Savings        decimal.Decimal `gorm:"column:savings;type:numeric(12,2);not null;default:0"`
	ShippingFee    decimal.Decimal `gorm:"column:shipping_fee;type:numeric(12,2);not null;default:0"`
	LoyaltyApplied decimal.Decimal `gorm:"column:loyalty_applied;type:numeric(12,2);not null;default:0"`
	PointsRedeemed int             `gorm:"column:points_redeemed;not null;default:0"`
	PointsEarned   int             `gorm:"column:points_earned;not null;default:0"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	DeliveryAddress types.Address   `gorm:"column:delivery_address;type:jsonb;not null"`
	DistanceKM      decimal.Decimal `gorm:"column:distance_km;type:numeric(8,2);not null;default:0"`
	Note            *string         `gorm:"column:note"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem carries the same frozen pricing columns as a cart line. Orders
// never re-price.
type OrderItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductUnitID uuid.UUID `gorm:"column:product_unit_id;type:uuid;not null"`
	SKU           string    `gorm:"column:sku;not null"`
	Title         string    `gorm:"column:title;not null"`
	UnitName      string    `gorm:"column:unit_name;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	BonusQty      int       `gorm:"column:bonus_qty;not null;default:0"`

	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	FinalPrice decimal.Decimal `gorm:"column:final_price;type:numeric(12,4);not null"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Savings    decimal.Decimal `gorm:"column:savings;type:numeric(12,2);not null;default:0"`

	PromotionID   *uuid.UUID `gorm:"column:promotion_id;type:uuid"`
	PromotionType *string    `gorm:"column:promotion_type"`
	PromotionName *string    `gorm:"column:promotion_name"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
