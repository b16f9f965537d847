package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

// CartRepository persists carts and their frozen lines.
type CartRepository interface {
	FindActive(ctx context.Context, owner Owner) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByUnit(ctx context.Context, cartID, unitID uuid.UUID) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	MarkStatus(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error
	WithTx(tx *gorm.DB) CartRepository
}

// Owner identifies whose cart we operate on: an authenticated customer or an
// anonymous browser session.
type Owner struct {
	CustomerID *uuid.UUID
	SessionID  string
}

func (o Owner) valid() bool {
	return o.CustomerID != nil || o.SessionID != ""
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	return &Repository{db: tx}
}

// FindActive loads the owner's active cart with its items, or nil when none
// exists yet.
func (r *Repository) FindActive(ctx context.Context, owner Owner) (*models.Cart, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.ProductUnit").
		Where("status = ?", enums.CartStatusActive)
	if owner.CustomerID != nil {
		q = q.Where("customer_id = ?", *owner.CustomerID)
	} else {
		q = q.Where("session_id = ?", owner.SessionID)
	}

	var cart models.Cart
	if err := q.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("ProductUnit").
		First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) FindItemByUnit(ctx context.Context, cartID, unitID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_unit_id = ?", cartID, unitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func (r *Repository) MarkStatus(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}
