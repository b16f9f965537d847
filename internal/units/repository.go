package units

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
)

// UnitRepository exposes reads over a product's selling units.
type UnitRepository interface {
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.ProductUnit, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductUnit, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByProductID returns the product's units, default first so position in
// the slice mirrors selection priority.
func (r *Repository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.ProductUnit, error) {
	var rows []models.ProductUnit
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_default DESC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductUnit, error) {
	var row models.ProductUnit
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
