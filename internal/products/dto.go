package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to storefront clients. Title and
// Description are resolved to a single language before serialization.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	InStock       bool            `json:"in_stock"`
	HasMultiUnits bool            `json:"has_multi_units"`
	Images        []string        `json:"images"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListDTO wraps a page of products with the cursor for the next one.
type ProductListDTO struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model, resolving localized
// fields to the requested language.
func NewProductDTO(product *models.Product, lang string) ProductDTO {
	return ProductDTO{
		ID:            product.ID,
		SKU:           product.SKU,
		Title:         product.Title.Resolve(lang),
		Description:   product.Description.Resolve(lang),
		Category:      product.Category,
		Price:         product.Price,
		Stock:         product.Stock,
		InStock:       product.Stock > 0,
		HasMultiUnits: product.HasMultiUnits,
		Images:        append([]string{}, product.Images...),
		Tags:          append([]string{}, product.Tags...),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
