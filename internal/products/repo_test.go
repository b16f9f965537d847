package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		SKU:      fmt.Sprintf("gro_test_%s", uuid.NewString()),
		Title:    types.LocalizedString{"en": "Repo Apples"},
		Category: "fruit",
		Price:    decimal.NewFromInt(3),
		Stock:    stock,
		IsActive: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestDecrementStock(t *testing.T) {
	conn := openTestDB(t)

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product := mustCreateTestProduct(t, tx, 5)

		if err := repo.DecrementStock(context.Background(), product.ID, 3); err != nil {
			t.Fatalf("decrement: %v", err)
		}

		var reloaded models.Product
		if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.Stock != 2 {
			t.Fatalf("expected stock 2, got %d", reloaded.Stock)
		}

		err := repo.DecrementStock(context.Background(), product.ID, 3)
		if err == nil {
			t.Fatalf("expected conflict when stock is insufficient")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict code, got %v", err)
		}

		return gorm.ErrRecordNotFound // roll back test data
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}

func TestListPagination(t *testing.T) {
	conn := openTestDB(t)

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		for i := 0; i < 3; i++ {
			mustCreateTestProduct(t, tx, 10)
		}

		first, err := repo.List(context.Background(), ListParams{Page: pagination.Params{Limit: 2}})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(first) < 3 {
			t.Fatalf("expected buffer row beyond the limit, got %d rows", len(first))
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}
