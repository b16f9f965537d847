package orders

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

// OrderRepository persists orders and reads them back scoped to a customer.
type OrderRepository interface {
	Create(tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error)
}

type orderRepository struct {
	conn *gorm.DB
}

func NewOrderRepository(conn *gorm.DB) (OrderRepository, error) {
	if conn == nil {
		return nil, fmt.Errorf("orders: gorm connection is required")
	}
	return &orderRepository{conn: conn}, nil
}

// Create inserts the order and its items inside the caller's transaction.
func (r *orderRepository) Create(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return fmt.Errorf("orders: transaction is required for order creation")
	}
	if err := tx.Create(order).Error; err != nil {
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return &order, nil
}

// ListByCustomer pages newest-first with a (created_at, id) keyset cursor. It
// fetches one extra row so the service can tell whether a next page exists.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	q := r.conn.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return rows, nil
}
