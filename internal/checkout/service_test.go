package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/internal/cart"
	"github.com/grocerly-app/storefront-backend/internal/products"
	"github.com/grocerly-app/storefront-backend/pkg/config"
	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	"github.com/grocerly-app/storefront-backend/pkg/outbox"
	"github.com/grocerly-app/storefront-backend/pkg/outbox/payloads"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubCarts struct {
	active       *models.Cart
	statusCartID uuid.UUID
	status       enums.CartStatus
}

func (s *stubCarts) FindActive(ctx context.Context, owner cart.Owner) (*models.Cart, error) {
	return s.active, nil
}

func (s *stubCarts) Create(ctx context.Context, c *models.Cart) error { return nil }

func (s *stubCarts) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCarts) FindItemByUnit(ctx context.Context, cartID, unitID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCarts) SaveItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCarts) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error { return nil }

func (s *stubCarts) ClearItems(ctx context.Context, cartID uuid.UUID) error { return nil }

func (s *stubCarts) MarkStatus(tx *gorm.DB, cartID uuid.UUID, status enums.CartStatus) error {
	s.statusCartID = cartID
	s.status = status
	return nil
}

func (s *stubCarts) WithTx(tx *gorm.DB) cart.CartRepository { return s }

type stubProductRepo struct {
	decrements map[uuid.UUID]int
	failOn     uuid.UUID
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "not in this test")
}

func (s *stubProductRepo) List(ctx context.Context, params products.ListParams) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if id == s.failOn {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}
	if s.decrements == nil {
		s.decrements = map[uuid.UUID]int{}
	}
	s.decrements[id] += qty
	return nil
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.ProductRepository { return s }

type stubOrderRepo struct {
	created *models.Order
}

func (s *stubOrderRepo) Create(tx *gorm.DB, order *models.Order) error {
	s.created = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "not in this test")
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return nil, nil
}

type stubLoyaltyRepo struct {
	points int
	delta  int
}

func (s *stubLoyaltyRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	return &models.LoyaltyAccount{CustomerID: customerID, Points: s.points}, nil
}

func (s *stubLoyaltyRepo) Adjust(tx *gorm.DB, customerID uuid.UUID, delta int) error {
	s.delta += delta
	return nil
}

type stubEvents struct {
	emitted []outbox.DomainEvent
}

func (s *stubEvents) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.emitted = append(s.emitted, event)
	return nil
}

type checkoutFixture struct {
	service  Service
	carts    *stubCarts
	products *stubProductRepo
	orders   *stubOrderRepo
	loyalty  *stubLoyaltyRepo
	events   *stubEvents
}

func newCheckoutFixture(t *testing.T, active *models.Cart, loyaltyPoints int) *checkoutFixture {
	t.Helper()
	shipping, err := NewShippingCalc(testShippingConfig())
	require.NoError(t, err)
	converter, err := NewLoyaltyConverter(config.LoyaltyConfig{PointValue: "0.01", EarnPerAmount: "1"})
	require.NoError(t, err)

	f := &checkoutFixture{
		carts:    &stubCarts{active: active},
		products: &stubProductRepo{},
		orders:   &stubOrderRepo{},
		loyalty:  &stubLoyaltyRepo{points: loyaltyPoints},
		events:   &stubEvents{},
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Level: zerolog.Disabled})
	f.service, err = NewService(stubTx{}, f.carts, f.products, f.orders, f.loyalty,
		shipping, converter, f.events, logg, "en")
	require.NoError(t, err)
	return f
}

func frozenCart(customerID uuid.UUID) *models.Cart {
	appleID, appleUnitID := uuid.New(), uuid.New()
	riceID, riceUnitID := uuid.New(), uuid.New()
	promoName := "Apple Deal"
	promoType := string(enums.PromotionTypeFixedPrice)
	promoID := uuid.New()
	return &models.Cart{
		ID:         uuid.New(),
		CustomerID: &customerID,
		Status:     enums.CartStatusActive,
		Items: []models.CartItem{
			{
				ID:            uuid.New(),
				ProductID:     appleID,
				Product:       models.Product{ID: appleID, SKU: "SKU-APPLE", Title: types.LocalizedString{"en": "Apples"}},
				ProductUnitID: appleUnitID,
				ProductUnit:   models.ProductUnit{ID: appleUnitID, UnitName: "Kilogram"},
				Quantity:      5,
				UnitPrice:     decimal.NewFromInt(10),
				FinalPrice:    decimal.NewFromInt(7),
				Subtotal:      decimal.NewFromInt(35),
				Savings:       decimal.NewFromInt(15),
				PromotionID:   &promoID,
				PromotionType: &promoType,
				PromotionName: &promoName,
			},
			{
				ID:            uuid.New(),
				ProductID:     riceID,
				Product:       models.Product{ID: riceID, SKU: "SKU-RICE", Title: types.LocalizedString{"en": "Rice"}},
				ProductUnitID: riceUnitID,
				ProductUnit:   models.ProductUnit{ID: riceUnitID, UnitName: "Bag"},
				Quantity:      2,
				UnitPrice:     decimal.NewFromInt(8),
				FinalPrice:    decimal.NewFromInt(8),
				Subtotal:      decimal.NewFromInt(16),
				Savings:       decimal.Zero,
			},
		},
	}
}

func nearbyAddress() types.Address {
	return types.Address{
		Line1: "55 Water St", City: "Brooklyn", PostalCode: "11201",
		Lat: 40.7033, Lng: -74.0170,
	}
}

func TestSubmitRequiresCustomer(t *testing.T) {
	f := newCheckoutFixture(t, nil, 0)
	_, err := f.service.Submit(context.Background(), uuid.Nil, SubmitInput{DeliveryAddress: nearbyAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, nil, 0)
	_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{DeliveryAddress: nearbyAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitFreezesLinesAndTotals(t *testing.T) {
	customerID := uuid.New()
	active := frozenCart(customerID)
	f := newCheckoutFixture(t, active, 0)

	dto, err := f.service.Submit(context.Background(), customerID, SubmitInput{DeliveryAddress: nearbyAddress()})
	require.NoError(t, err)

	assert.True(t, dto.Subtotal.Equal(decimal.NewFromInt(51)), "subtotal %s", dto.Subtotal)
	assert.True(t, dto.Savings.Equal(decimal.NewFromInt(15)))
	assert.True(t, dto.ShippingFee.GreaterThan(decimal.Zero))
	assert.True(t, dto.Total.Equal(dto.Subtotal.Add(dto.ShippingFee)))
	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.NotEmpty(t, dto.Number)

	require.Len(t, dto.Items, 2)
	assert.Equal(t, "SKU-APPLE", dto.Items[0].SKU)
	assert.Equal(t, "Apples", dto.Items[0].Title)
	assert.Equal(t, "Kilogram", dto.Items[0].UnitName)
	assert.True(t, dto.Items[0].FinalPrice.Equal(decimal.NewFromInt(7)))
	require.NotNil(t, dto.Items[0].PromotionName)
	assert.Equal(t, "Apple Deal", *dto.Items[0].PromotionName)

	// stock decremented per line inside the transaction
	assert.Equal(t, 5, f.products.decrements[active.Items[0].ProductID])
	assert.Equal(t, 2, f.products.decrements[active.Items[1].ProductID])

	// cart flipped to converted
	assert.Equal(t, active.ID, f.carts.statusCartID)
	assert.Equal(t, enums.CartStatusConverted, f.carts.status)

	// one order.created event carrying the frozen lines
	require.Len(t, f.events.emitted, 1)
	event := f.events.emitted[0]
	assert.Equal(t, enums.OutboxEventOrderCreated, event.EventType)
	assert.Equal(t, enums.OutboxAggregateOrder, event.AggregateType)
	payload, ok := event.Data.(payloads.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, dto.Number, payload.OrderNumber)
	require.Len(t, payload.Lines, 2)
	assert.True(t, payload.Lines[0].Subtotal.Equal(decimal.NewFromInt(35)))
}

func TestSubmitRedeemsAndEarnsPoints(t *testing.T) {
	customerID := uuid.New()
	f := newCheckoutFixture(t, frozenCart(customerID), 300)

	dto, err := f.service.Submit(context.Background(), customerID, SubmitInput{
		DeliveryAddress: nearbyAddress(),
		RedeemPoints:    1000,
	})
	require.NoError(t, err)

	// clamped to the 300-point balance, worth 3.00
	assert.Equal(t, 300, dto.PointsRedeemed)
	assert.True(t, dto.LoyaltyApplied.Equal(decimal.NewFromInt(3)))
	assert.True(t, dto.Total.Equal(dto.Subtotal.Add(dto.ShippingFee).Sub(decimal.NewFromInt(3))))
	assert.Equal(t, int(dto.Total.Floor().IntPart()), dto.PointsEarned)
	assert.Equal(t, dto.PointsEarned-300, f.loyalty.delta)
}

func TestSubmitStockConflictAbortsOrder(t *testing.T) {
	customerID := uuid.New()
	active := frozenCart(customerID)
	f := newCheckoutFixture(t, active, 0)
	f.products.failOn = active.Items[1].ProductID

	_, err := f.service.Submit(context.Background(), customerID, SubmitInput{DeliveryAddress: nearbyAddress()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Nil(t, f.orders.created)
	assert.Empty(t, f.events.emitted)
}

func TestSubmitRejectsFarAddress(t *testing.T) {
	customerID := uuid.New()
	f := newCheckoutFixture(t, frozenCart(customerID), 0)

	_, err := f.service.Submit(context.Background(), customerID, SubmitInput{
		DeliveryAddress: types.Address{Line1: "x", City: "y", PostalCode: "z", Lat: 39.9526, Lng: -75.1652},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Nil(t, f.orders.created)
}

func TestSubmitFreeShippingOverThreshold(t *testing.T) {
	customerID := uuid.New()
	active := frozenCart(customerID)
	active.Items[1].Subtotal = decimal.NewFromInt(60) // subtotal 95
	f := newCheckoutFixture(t, active, 0)

	dto, err := f.service.Submit(context.Background(), customerID, SubmitInput{DeliveryAddress: nearbyAddress()})
	require.NoError(t, err)
	assert.True(t, dto.ShippingFee.IsZero())
	assert.True(t, dto.Total.Equal(decimal.NewFromInt(95)))
}
