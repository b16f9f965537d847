package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/api/middleware"
	cartsvc "github.com/grocerly-app/storefront-backend/internal/cart"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
)

type stubCartService struct {
	dto       *cartsvc.CartDTO
	err       error
	lastOwner cartsvc.Owner
	lastInput cartsvc.AddItemInput
}

func (s *stubCartService) GetCart(ctx context.Context, owner cartsvc.Owner) (*cartsvc.CartDTO, error) {
	s.lastOwner = owner
	return s.dto, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, owner cartsvc.Owner, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.lastOwner = owner
	s.lastInput = input
	return s.dto, s.err
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, owner cartsvc.Owner, itemID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	s.lastOwner = owner
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, owner cartsvc.Owner, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastOwner = owner
	return s.dto, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, owner cartsvc.Owner) error {
	s.lastOwner = owner
	return s.err
}

func TestGetCartUsesSessionOwner(t *testing.T) {
	svc := &stubCartService{
		dto: &cartsvc.CartDTO{
			ID:       uuid.New(),
			Status:   enums.CartStatusActive,
			Subtotal: decimal.NewFromInt(42),
		},
	}
	handler := GetCart(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-abc"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastOwner.SessionID != "sess-abc" {
		t.Fatalf("unexpected owner: %+v", svc.lastOwner)
	}
	if svc.lastOwner.CustomerID != nil {
		t.Fatalf("session cart must not carry a customer id")
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Subtotal.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("unexpected subtotal: %s", envelope.Data.Subtotal)
	}
}

func TestGetCartPrefersCustomerOwner(t *testing.T) {
	customerID := uuid.New()
	svc := &stubCartService{dto: &cartsvc.CartDTO{ID: uuid.New(), Status: enums.CartStatusActive}}
	handler := GetCart(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	ctx := middleware.WithCustomerID(req.Context(), customerID)
	ctx = middleware.WithSessionID(ctx, "sess-abc")
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastOwner.CustomerID == nil || *svc.lastOwner.CustomerID != customerID {
		t.Fatalf("expected customer owner, got %+v", svc.lastOwner)
	}
}

func TestGetCartRequiresOwner(t *testing.T) {
	handler := GetCart(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddCartItemForwardsInput(t *testing.T) {
	productID := uuid.New()
	unitID := uuid.New()
	svc := &stubCartService{dto: &cartsvc.CartDTO{ID: uuid.New(), Status: enums.CartStatusActive}}
	handler := AddCartItem(svc, nil)

	body := `{"product_id":"` + productID.String() + `","product_unit_id":"` + unitID.String() + `","quantity":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-abc"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.ProductID != productID || svc.lastInput.ProductUnitID != unitID {
		t.Fatalf("unexpected input: %+v", svc.lastInput)
	}
	if svc.lastInput.Quantity != 4 {
		t.Fatalf("unexpected quantity: %d", svc.lastInput.Quantity)
	}
}
