package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

// PromotionDTO is the promotion payload served to storefront clients.
type PromotionDTO struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Type              enums.PromotionType `json:"type"`
	ProductID         *uuid.UUID          `json:"product_id,omitempty"`
	ProductUnitID     *uuid.UUID          `json:"product_unit_id,omitempty"`
	Value             decimal.Decimal     `json:"value"`
	MinQty            int                 `json:"min_qty"`
	MaxQty            *int                `json:"max_qty,omitempty"`
	RequiredQty       *int                `json:"required_qty,omitempty"`
	FreeQty           *int                `json:"free_qty,omitempty"`
	RequiredItemCount *int                `json:"required_item_count,omitempty"`
	PricePerItem      *decimal.Decimal    `json:"price_per_item,omitempty"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
}

// NewPromotionDTO maps the persisted model to its API shape.
func NewPromotionDTO(p *models.Promotion) PromotionDTO {
	minQty := p.MinQty
	if minQty <= 0 {
		minQty = 1
	}
	return PromotionDTO{
		ID:                p.ID,
		Name:              p.Name,
		Type:              p.Type,
		ProductID:         p.ProductID,
		ProductUnitID:     p.ProductUnitID,
		Value:             p.Value,
		MinQty:            minQty,
		MaxQty:            p.MaxQty,
		RequiredQty:       p.RequiredQty,
		FreeQty:           p.FreeQty,
		RequiredItemCount: p.RequiredItemCount,
		PricePerItem:      p.PricePerItem,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
	}
}

// NewPromotionDTOs maps a slice of models.
func NewPromotionDTOs(rows []models.Promotion) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewPromotionDTO(&rows[i]))
	}
	return out
}
