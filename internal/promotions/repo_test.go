package promotions

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("GROCERLY_DB_DSN")
	if dsn == "" {
		t.Skip("GROCERLY_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreatePromoProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           fmt.Sprintf("gro_test_%s", uuid.NewString()),
		Title:         types.LocalizedString{"en": "Promo Rice"},
		Category:      "pantry",
		Price:         decimal.NewFromInt(8),
		Stock:         20,
		HasMultiUnits: true,
		IsActive:      true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateUnit(t *testing.T, tx *gorm.DB, productID uuid.UUID, shortCode string, unitValue int64) *models.ProductUnit {
	t.Helper()
	unit := &models.ProductUnit{
		ID:        uuid.New(),
		ProductID: productID,
		UnitName:  shortCode,
		ShortCode: shortCode,
		UnitValue: decimal.NewFromInt(unitValue),
		PackQty:   1,
		Price:     decimal.NewFromInt(8),
		IsActive:  true,
	}
	if err := tx.Create(unit).Error; err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return unit
}

func mustCreateUnitPromotion(t *testing.T, tx *gorm.DB, unitID uuid.UUID) *models.Promotion {
	t.Helper()
	now := time.Now()
	promo := &models.Promotion{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("gro_test_deal_%s", uuid.NewString()),
		Type:          enums.PromotionTypeFixedPrice,
		ProductUnitID: &unitID,
		Value:         decimal.NewFromInt(6),
		MinQty:        1,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		IsActive:      true,
	}
	if err := tx.Create(promo).Error; err != nil {
		t.Fatalf("create promotion: %v", err)
	}
	return promo
}

func TestListForUnitIncludesSiblingUnitScopes(t *testing.T) {
	conn := openTestDB(t)

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product := mustCreatePromoProduct(t, tx)

		selected := mustCreateUnit(t, tx, product.ID, "kg", 1)
		sibling := mustCreateUnit(t, tx, product.ID, "kg", 1)
		promo := mustCreateUnitPromotion(t, tx, sibling.ID)

		other := mustCreatePromoProduct(t, tx)
		otherUnit := mustCreateUnit(t, tx, other.ID, "kg", 1)
		foreign := mustCreateUnitPromotion(t, tx, otherUnit.ID)

		rows, err := repo.ListForUnit(context.Background(), product.ID, selected.ID, time.Now())
		if err != nil {
			t.Fatalf("list for unit: %v", err)
		}

		var sawSibling, sawForeign bool
		for _, row := range rows {
			if row.ID == promo.ID {
				sawSibling = true
				if row.ProductUnit == nil || row.ProductUnit.ID != sibling.ID {
					t.Fatalf("sibling promotion must preload its unit for structural matching")
				}
			}
			if row.ID == foreign.ID {
				sawForeign = true
			}
		}
		if !sawSibling {
			t.Fatalf("promotion scoped to a sibling unit missing from the candidate set")
		}
		if sawForeign {
			t.Fatalf("promotion scoped to another product's unit must not be a candidate")
		}

		return gorm.ErrRecordNotFound // roll back test data
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}
