package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

// PromotionRepository exposes reads over live promotions. Every query orders
// by created_at ASC, id ASC so first-match-wins stays deterministic.
type PromotionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	ListForUnit(ctx context.Context, productID, unitID uuid.UUID, now time.Time) ([]models.Promotion, error)
	ListForProduct(ctx context.Context, productID uuid.UUID, now time.Time) ([]models.Promotion, error)
	ListActive(ctx context.Context, promoType *enums.PromotionType, now time.Time) ([]models.Promotion, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var row models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ProductUnit").
		Preload("EligibleProducts").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) activeScope(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ProductUnit").
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("created_at ASC").
		Order("id ASC")
}

// ListForUnit returns live promotions that could cover the unit: scoped to
// it directly, to any sibling unit of the same product, to its product, or
// unscoped. Sibling-scoped rows stay in the candidate set so the matcher can
// apply its structural short-code test against them.
func (r *Repository) ListForUnit(ctx context.Context, productID, unitID uuid.UUID, now time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.activeScope(ctx, now).
		Where("product_unit_id = ? OR product_unit_id IN (?) OR (product_unit_id IS NULL AND (product_id = ? OR product_id IS NULL))",
			unitID,
			r.db.Model(&models.ProductUnit{}).Select("id").Where("product_id = ?", productID),
			productID,
		).
		Find(&rows).Error
	return rows, err
}

// ListForProduct returns live promotions scoped to the product or to any of
// its units.
func (r *Repository) ListForProduct(ctx context.Context, productID uuid.UUID, now time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.activeScope(ctx, now).
		Where("product_id = ? OR product_unit_id IN (?)",
			productID,
			r.db.Model(&models.ProductUnit{}).Select("id").Where("product_id = ?", productID),
		).
		Find(&rows).Error
	return rows, err
}

// ListActive returns every live promotion, optionally filtered by type.
func (r *Repository) ListActive(ctx context.Context, promoType *enums.PromotionType, now time.Time) ([]models.Promotion, error) {
	q := r.activeScope(ctx, now)
	if promoType != nil {
		q = q.Where("type = ?", *promoType)
	}
	var rows []models.Promotion
	err := q.Find(&rows).Error
	return rows, err
}
