package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/internal/units"
	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type unitResolver interface {
	Resolve(ctx context.Context, product *models.Product) units.Resolved
}

type promotionLister interface {
	GetPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	ListForUnit(ctx context.Context, productID, unitID uuid.UUID) ([]models.Promotion, error)
}

// QuoteInput identifies the line to price. A nil ProductUnitID means the
// resolved default unit.
type QuoteInput struct {
	ProductID     uuid.UUID
	ProductUnitID *uuid.UUID
	Quantity      int
}

// Service prices storefront lines and combo selections.
type Service interface {
	QuoteForUnit(ctx context.Context, input QuoteInput) (*PricingInfo, error)
	ComboQuoteByPromotion(ctx context.Context, promotionID uuid.UUID, selections ComboSelection) (*ComboResult, error)
}

type service struct {
	products productLoader
	units    unitResolver
	promos   promotionLister
	logg     *logger.Logger
	maxQty   int
}

// NewService constructs the pricing service.
func NewService(products productLoader, unitResolver unitResolver, promos promotionLister, logg *logger.Logger, maxQty int) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if unitResolver == nil {
		return nil, fmt.Errorf("unit resolver required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promotion lister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxQty <= 0 {
		maxQty = 1000
	}
	return &service{
		products: products,
		units:    unitResolver,
		promos:   promos,
		logg:     logg,
		maxQty:   maxQty,
	}, nil
}

// QuoteForUnit resolves the unit, matches a live promotion and prices the
// line. A promotion lookup failure degrades to a base-price quote; browsing
// is never blocked by the promotion store.
func (s *service) QuoteForUnit(ctx context.Context, input QuoteInput) (*PricingInfo, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Quantity > s.maxQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity exceeds maximum of %d", s.maxQty))
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	resolved := s.units.Resolve(ctx, product)
	unit := resolved.Selected
	if input.ProductUnitID != nil {
		found := false
		for _, u := range resolved.Units {
			if u.ID == *input.ProductUnitID {
				unit = u
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product unit not found")
		}
	}

	candidates, err := s.promos.ListForUnit(ctx, product.ID, unit.ID)
	if err != nil {
		logCtx := s.logg.WithProductID(ctx, product.ID.String())
		s.logg.Warn(logCtx, fmt.Sprintf("promotion lookup degraded to base price: %v", err))
		candidates = nil
	}

	matched := Match(unit, candidates)
	info := Quote(unit.Price, input.Quantity, matched)
	return &info, nil
}

// ComboQuoteByPromotion validates stock for the selection and prices the
// assorted_items bundle.
func (s *service) ComboQuoteByPromotion(ctx context.Context, promotionID uuid.UUID, selections ComboSelection) (*ComboResult, error) {
	promo, err := s.promos.GetPromotion(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promo.Type != enums.PromotionTypeAssortedItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("promotion %q does not support combo selection", promo.Name))
	}

	stock, err := s.comboStock(ctx, promo, selections)
	if err != nil {
		return nil, err
	}
	if err := ValidateStock(selections, stock); err != nil {
		return nil, err
	}

	result, err := ComboQuote(*promo, selections)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type comboStock struct {
	eligible map[uuid.UUID]int
}

func (c comboStock) StockFor(id uuid.UUID) (int, bool) {
	v, ok := c.eligible[id]
	return v, ok
}

// comboStock loads the available stock for every selected product. When the
// promotion carries an explicit eligible set, products outside it are left
// out so the stock guard rejects them by name.
func (s *service) comboStock(ctx context.Context, promo *models.Promotion, selections ComboSelection) (comboStock, error) {
	eligibleSet := map[uuid.UUID]bool{}
	for _, p := range promo.EligibleProducts {
		eligibleSet[p.ID] = true
	}

	stock := comboStock{eligible: map[uuid.UUID]int{}}
	for productID := range selections {
		if len(eligibleSet) > 0 && !eligibleSet[productID] {
			continue
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return comboStock{}, err
		}
		stock.eligible[productID] = product.Stock
	}
	return stock, nil
}
