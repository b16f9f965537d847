package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

type OrderItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductUnitID uuid.UUID       `json:"product_unit_id"`
	SKU           string          `json:"sku"`
	Title         string          `json:"title"`
	UnitName      string          `json:"unit_name"`
	Quantity      int             `json:"quantity"`
	BonusQty      int             `json:"bonus_qty,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Savings       decimal.Decimal `json:"savings"`
	PromotionName *string         `json:"promotion_name,omitempty"`
	PromotionType *string         `json:"promotion_type,omitempty"`
}

type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Number          string            `json:"number"`
	Status          enums.OrderStatus `json:"status"`
	Items           []OrderItemDTO    `json:"items"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Savings         decimal.Decimal   `json:"savings"`
	ShippingFee     decimal.Decimal   `json:"shipping_fee"`
	LoyaltyApplied  decimal.Decimal   `json:"loyalty_applied"`
	PointsRedeemed  int               `json:"points_redeemed"`
	PointsEarned    int               `json:"points_earned"`
	Total           decimal.Decimal   `json:"total"`
	DeliveryAddress types.Address     `json:"delivery_address"`
	DistanceKM      decimal.Decimal   `json:"distance_km"`
	Note            *string           `json:"note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type OrderListDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func NewOrderDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductUnitID: item.ProductUnitID,
			SKU:           item.SKU,
			Title:         item.Title,
			UnitName:      item.UnitName,
			Quantity:      item.Quantity,
			BonusQty:      item.BonusQty,
			UnitPrice:     item.UnitPrice,
			FinalPrice:    item.FinalPrice,
			Subtotal:      item.Subtotal,
			Savings:       item.Savings,
			PromotionName: item.PromotionName,
			PromotionType: item.PromotionType,
		})
	}
	return OrderDTO{
		ID:              order.ID,
		Number:          order.Number,
		Status:          order.Status,
		Items:           items,
		Subtotal:        order.Subtotal,
		Savings:         order.Savings,
		ShippingFee:     order.ShippingFee,
		LoyaltyApplied:  order.LoyaltyApplied,
		PointsRedeemed:  order.PointsRedeemed,
		PointsEarned:    order.PointsEarned,
		Total:           order.Total,
		DeliveryAddress: order.DeliveryAddress,
		DistanceKM:      order.DistanceKM,
		Note:            order.Note,
		CreatedAt:       order.CreatedAt,
	}
}
