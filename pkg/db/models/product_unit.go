package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUnit is a purchasable packaging tier for a product, e.g. a single
// piece or a 12-pack carton. PackQty is always >= 1 and at most one active
// unit per product carries IsDefault.
type ProductUnit struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	UnitName  string          `gorm:"column:unit_name;not null"`
	ShortCode string          `gorm:"column:short_code;not null"`
	UnitValue decimal.Decimal `gorm:"column:unit_value;type:numeric(12,3);not null;default:1"`
	PackQty   int             `gorm:"column:pack_qty;not null;default:1"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsDefault bool            `gorm:"column:is_default;not null;default:false"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
