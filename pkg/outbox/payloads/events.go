package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedLine is a frozen line carried on the order.created payload.
type OrderCreatedLine struct {
	ProductID     uuid.UUID       `json:"productId"`
	ProductUnitID uuid.UUID       `json:"productUnitId"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"`
	BonusQty      int             `json:"bonusQty,omitempty"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// OrderCreatedEvent signals a completed checkout.
type OrderCreatedEvent struct {
	OrderID        uuid.UUID          `json:"orderId"`
	OrderNumber    string             `json:"orderNumber"`
	CustomerID     uuid.UUID          `json:"customerId"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Savings        decimal.Decimal    `json:"savings"`
	ShippingFee    decimal.Decimal    `json:"shippingFee"`
	LoyaltyApplied decimal.Decimal    `json:"loyaltyApplied"`
	Total          decimal.Decimal    `json:"total"`
	PointsEarned   int                `json:"pointsEarned"`
	Lines          []OrderCreatedLine `json:"lines"`
}

// OrderCancelledEvent is emitted when a pending order is cancelled.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
	CancelledAt time.Time `json:"cancelledAt"`
	Reason      string    `json:"reason,omitempty"`
}
