package units

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// Resolved carries every selectable unit for a product plus the one the
// storefront should preselect. Selected is always present: resolution
// degrades to a synthesized unit rather than failing.
type Resolved struct {
	Units    []models.ProductUnit `json:"units"`
	Selected models.ProductUnit   `json:"selected"`
	Fallback bool                 `json:"fallback"`
}

// Service resolves the selling units of a product.
type Service interface {
	Resolve(ctx context.Context, product *models.Product) Resolved
}

type service struct {
	repo         UnitRepository
	logg         *logger.Logger
	fetchTimeout time.Duration
}

// NewService constructs a unit resolver.
func NewService(repo UnitRepository, logg *logger.Logger, fetchTimeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("unit repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &service{repo: repo, logg: logg, fetchTimeout: fetchTimeout}, nil
}

// Resolve loads the product's units under a bounded deadline. Single-unit
// products and every failure path yield the synthesized unit, so callers
// always receive exactly one selectable unit.
func (s *service) Resolve(ctx context.Context, product *models.Product) Resolved {
	fallback := SynthesizeUnit(product)

	if !product.HasMultiUnits {
		return Resolved{
			Units:    []models.ProductUnit{fallback},
			Selected: fallback,
			Fallback: true,
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rows, err := s.repo.ListByProductID(fetchCtx, product.ID)
	if err != nil {
		logCtx := s.logg.WithProductID(ctx, product.ID.String())
		s.logg.Warn(logCtx, fmt.Sprintf("unit fetch degraded to fallback: %v", err))
		return Resolved{
			Units:    []models.ProductUnit{fallback},
			Selected: fallback,
			Fallback: true,
		}
	}
	if len(rows) == 0 {
		return Resolved{
			Units:    []models.ProductUnit{fallback},
			Selected: fallback,
			Fallback: true,
		}
	}

	return Resolved{
		Units:    rows,
		Selected: pickDefault(rows),
	}
}

// pickDefault prefers the active default, then the first active unit, then
// the first returned row.
func pickDefault(rows []models.ProductUnit) models.ProductUnit {
	for _, u := range rows {
		if u.IsDefault && u.IsActive {
			return u
		}
	}
	for _, u := range rows {
		if u.IsActive {
			return u
		}
	}
	return rows[0]
}

// SynthesizeUnit builds the single default unit for a product sold without
// explicit unit rows.
func SynthesizeUnit(product *models.Product) models.ProductUnit {
	return models.ProductUnit{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("unit:"+product.ID.String())),
		ProductID: product.ID,
		UnitName:  "Each",
		ShortCode: "ea",
		UnitValue: decimal.NewFromInt(1),
		PackQty:   1,
		Price:     product.Price,
		IsDefault: true,
		IsActive:  true,
	}
}
