package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

// CartItemDTO exposes one frozen line.
type CartItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductUnitID uuid.UUID       `json:"product_unit_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Savings       decimal.Decimal `json:"savings"`
	BonusQty      int             `json:"bonus_qty,omitempty"`
	PromotionID   *uuid.UUID      `json:"promotion_id,omitempty"`
	PromotionType *string         `json:"promotion_type,omitempty"`
	PromotionName *string         `json:"promotion_name,omitempty"`
	Breakdown     *string         `json:"breakdown,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CartDTO is the cart payload with totals derived from the frozen lines.
type CartDTO struct {
	ID       uuid.UUID        `json:"id"`
	Status   enums.CartStatus `json:"status"`
	Items    []CartItemDTO    `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Savings  decimal.Decimal  `json:"savings"`
}

// NewCartDTO maps the cart. Totals are sums over the stored snapshots, never
// recomputed from the live catalog.
func NewCartDTO(cart *models.Cart) CartDTO {
	dto := CartDTO{
		ID:       cart.ID,
		Status:   cart.Status,
		Items:    make([]CartItemDTO, 0, len(cart.Items)),
		Subtotal: decimal.Zero,
		Savings:  decimal.Zero,
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		dto.Items = append(dto.Items, CartItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductUnitID: item.ProductUnitID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			FinalPrice:    item.FinalPrice,
			Subtotal:      item.Subtotal,
			Savings:       item.Savings,
			BonusQty:      item.BonusQty,
			PromotionID:   item.PromotionID,
			PromotionType: item.PromotionType,
			PromotionName: item.PromotionName,
			Breakdown:     item.Breakdown,
			UpdatedAt:     item.UpdatedAt,
		})
		dto.Subtotal = dto.Subtotal.Add(item.Subtotal)
		dto.Savings = dto.Savings.Add(item.Savings)
	}
	return dto
}
