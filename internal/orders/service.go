package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
)

// Service reads a customer's order history. Writes happen through checkout.
type Service interface {
	GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (OrderDTO, error)
	ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (OrderListDTO, error)
}

type service struct {
	repo OrderRepository
}

func NewService(repo OrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, customerID, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return NewOrderDTO(*order), nil
}

func (s *service) ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (OrderListDTO, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return OrderListDTO{}, err
	}
	var nextCursor string
	if len(rows) > params.Limit {
		rows = rows[:params.Limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewOrderDTO(row))
	}
	return OrderListDTO{Items: items, NextCursor: nextCursor}, nil
}
