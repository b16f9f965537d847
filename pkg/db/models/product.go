package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/types"
)

// Product is a catalog listing. Price is the flat single-piece price used
// whenever the product has no packaging tiers of its own.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string                `gorm:"column:sku;not null;uniqueIndex"`
	Title         types.LocalizedString `gorm:"column:title;type:jsonb;not null"`
	Description   types.LocalizedString `gorm:"column:description;type:jsonb"`
	Category      string                `gorm:"column:category;not null"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Stock         int                   `gorm:"column:stock;not null;default:0"`
	HasMultiUnits bool                  `gorm:"column:has_multi_units;not null;default:false"`
	Images        pq.StringArray        `gorm:"column:images;type:text[]"`
	Tags          pq.StringArray        `gorm:"column:tags;type:text[]"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	Units         []ProductUnit         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
