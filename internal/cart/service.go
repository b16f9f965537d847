package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocerly-app/storefront-backend/internal/pricing"
	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type quoter interface {
	QuoteForUnit(ctx context.Context, input pricing.QuoteInput) (*pricing.PricingInfo, error)
}

// AddItemInput is the payload for adding a line to the cart.
type AddItemInput struct {
	ProductID     uuid.UUID
	ProductUnitID uuid.UUID
	Quantity      int
}

// Service exposes cart operations. Prices are frozen when a line is added or
// its quantity changes; nothing else ever moves them.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (*CartDTO, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*CartDTO, error)
	ClearCart(ctx context.Context, owner Owner) error
}

type service struct {
	repo     CartRepository
	products productLoader
	pricer   quoter
}

// NewService constructs the cart service.
func NewService(repo CartRepository, products productLoader, pricer quoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	return &service{repo: repo, products: products, pricer: pricer}, nil
}

// GetCart returns the active cart, creating nothing: a missing cart is an
// empty DTO.
func (s *service) GetCart(ctx context.Context, owner Owner) (*CartDTO, error) {
	if !owner.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	cart, err := s.repo.FindActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		empty := CartDTO{Items: []CartItemDTO{}, Subtotal: decimal.Zero, Savings: decimal.Zero}
		return &empty, nil
	}
	dto := NewCartDTO(cart)
	return &dto, nil
}

// AddItem freezes a fresh quote for the line. Adding a unit that is already
// in the cart merges quantities and re-freezes at the combined quantity.
func (s *service) AddItem(ctx context.Context, owner Owner, input AddItemInput) (*CartDTO, error) {
	if !owner.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if input.ProductID == uuid.Nil || input.ProductUnitID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product and unit ids are required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.ensureCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	quantity := input.Quantity
	existing, err := s.repo.FindItemByUnit(ctx, cart.ID, input.ProductUnitID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		quantity += existing.Quantity
	}

	if err := s.checkStock(ctx, input.ProductID, quantity); err != nil {
		return nil, err
	}

	item := existing
	if item == nil {
		item = &models.CartItem{
			ID:            uuid.New(),
			CartID:        cart.ID,
			ProductID:     input.ProductID,
			ProductUnitID: input.ProductUnitID,
		}
	}
	if err := s.freeze(ctx, item, quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

// UpdateItemQuantity re-freezes the line at the new quantity.
func (s *service) UpdateItemQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if !owner.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.repo.FindActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
	}
	if err := s.checkStock(ctx, item.ProductID, quantity); err != nil {
		return nil, err
	}
	if err := s.freeze(ctx, item, quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

func (s *service) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*CartDTO, error) {
	if !owner.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	cart, err := s.repo.FindActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
	}
	return s.GetCart(ctx, owner)
}

func (s *service) ClearCart(ctx context.Context, owner Owner) error {
	if !owner.valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	cart, err := s.repo.FindActive(ctx, owner)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.repo.ClearItems(ctx, cart.ID)
}

func (s *service) ensureCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	cart, err := s.repo.FindActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{
		ID:         uuid.New(),
		CustomerID: owner.CustomerID,
		SessionID:  owner.SessionID,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) checkStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("only %d of product %s in stock", product.Stock, product.ID))
	}
	return nil
}

// freeze quotes the line and stores the result on the item. This is the only
// place snapshot columns are written.
func (s *service) freeze(ctx context.Context, item *models.CartItem, quantity int) error {
	info, err := s.pricer.QuoteForUnit(ctx, pricing.QuoteInput{
		ProductID:     item.ProductID,
		ProductUnitID: &item.ProductUnitID,
		Quantity:      quantity,
	})
	if err != nil {
		return err
	}

	item.Quantity = quantity
	item.UnitPrice = info.BasePrice
	item.FinalPrice = info.FinalPrice
	item.Subtotal = info.TotalPrice.Round(2)
	item.Savings = info.Savings
	item.BonusQty = info.BonusQty
	item.PromotionID = info.PromotionID
	item.PromotionType = nil
	item.PromotionName = nil
	item.Breakdown = nil
	if info.IsPromotional {
		if info.PromotionType != nil {
			t := info.PromotionType.String()
			item.PromotionType = &t
		}
		if info.PromotionName != "" {
			name := info.PromotionName
			item.PromotionName = &name
		}
		if info.Breakdown != "" {
			b := info.Breakdown
			item.Breakdown = &b
		}
	}
	return nil
}
