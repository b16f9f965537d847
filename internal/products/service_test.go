package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	listed   []models.Product
	listErr  error
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (s *stubProductRepo) List(_ context.Context, _ ListParams) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listed, nil
}

func (s *stubProductRepo) DecrementStock(context.Context, uuid.UUID, int) error { return nil }

func (s *stubProductRepo) WithTx(*gorm.DB) ProductRepository { return s }

func newTestProduct(title map[string]string, active bool) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		SKU:       "sku-1",
		Title:     title,
		Category:  "fruit",
		Price:     decimal.NewFromInt(3),
		Stock:     7,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
}

func TestGetProductResolvesLanguage(t *testing.T) {
	product := newTestProduct(types.LocalizedString{"en": "Apples", "es": "Manzanas"}, true)
	svc, err := NewService(&stubProductRepo{products: map[uuid.UUID]*models.Product{product.ID: product}}, "en")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetProduct(context.Background(), product.ID, "es")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.Title != "Manzanas" {
		t.Fatalf("expected localized title, got %q", dto.Title)
	}

	dto, err = svc.GetProduct(context.Background(), product.ID, "")
	if err != nil {
		t.Fatalf("get default lang: %v", err)
	}
	if dto.Title != "Apples" {
		t.Fatalf("expected default language fallback, got %q", dto.Title)
	}
}

func TestGetProductHidesInactive(t *testing.T) {
	product := newTestProduct(types.LocalizedString{"en": "Apples"}, false)
	svc, _ := NewService(&stubProductRepo{products: map[uuid.UUID]*models.Product{product.ID: product}}, "en")

	_, err := svc.GetProduct(context.Background(), product.ID, "en")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestGetProductRequiresID(t *testing.T) {
	svc, _ := NewService(&stubProductRepo{}, "en")
	_, err := svc.GetProduct(context.Background(), uuid.Nil, "en")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListProductsPaginates(t *testing.T) {
	rows := make([]models.Product, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, *newTestProduct(types.LocalizedString{"en": "Apples"}, true))
	}
	svc, _ := NewService(&stubProductRepo{listed: rows}, "en")

	// limit 2 with 3 returned rows means a next page exists
	result, err := svc.ListProducts(context.Background(), ListParams{Page: pagination.Params{Limit: 2}}, "en")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected trimmed page of 2, got %d", len(result.Items))
	}
	if result.NextCursor == "" {
		t.Fatalf("expected next cursor")
	}

	cursor, err := pagination.ParseCursor(result.NextCursor)
	if err != nil {
		t.Fatalf("cursor should round-trip: %v", err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should pin the last returned row")
	}
}

func TestListProductsLastPage(t *testing.T) {
	rows := []models.Product{*newTestProduct(types.LocalizedString{"en": "Apples"}, true)}
	svc, _ := NewService(&stubProductRepo{listed: rows}, "en")

	result, err := svc.ListProducts(context.Background(), ListParams{Page: pagination.Params{Limit: 2}}, "en")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 || result.NextCursor != "" {
		t.Fatalf("expected final page without cursor, got %d items cursor %q", len(result.Items), result.NextCursor)
	}
}
