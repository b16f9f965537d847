package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
)

// ProductRepository defines read and stock operations for the catalog.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params ListParams) ([]models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	WithTx(tx *gorm.DB) ProductRepository
}

// ListParams filters the catalog listing.
type ListParams struct {
	Category string
	Search   string
	Page     pagination.Params
}

// Repository wires catalog persistence to gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// List returns active products newest first, cursor-paginated. One extra row
// beyond the limit signals a next page to the caller.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Page.Limit))

	if params.Category != "" {
		q = q.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		q = q.Where("sku ILIKE ?", "%"+params.Search+"%")
	}

	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock atomically reduces stock, failing when not enough remains.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for product %s", id))
	}
	return nil
}
