package models

import (
	"time"

	"github.com/google/uuid"
)

type LoyaltyAccount struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;uniqueIndex;not null"`
	Points     int       `gorm:"column:points;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
