package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grocerly-app/storefront-backend/internal/cart"
	"github.com/grocerly-app/storefront-backend/internal/orders"
	"github.com/grocerly-app/storefront-backend/internal/products"
	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	"github.com/grocerly-app/storefront-backend/pkg/outbox"
	"github.com/grocerly-app/storefront-backend/pkg/outbox/payloads"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

// txRunner matches pkg/db.Client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SubmitInput is the checkout request after validation.
type SubmitInput struct {
	DeliveryAddress types.Address
	RedeemPoints    int
	Note            *string
}

// Service converts an active cart into an order.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (orders.OrderDTO, error)
}

type service struct {
	tx          txRunner
	carts       cart.CartRepository
	productRepo products.ProductRepository
	orderRepo   orders.OrderRepository
	loyaltyRepo LoyaltyRepository
	shipping    *ShippingCalc
	loyalty     *LoyaltyConverter
	events      eventEmitter
	logg        *logger.Logger
	defaultLang string
	now         func() time.Time
}

func NewService(
	tx txRunner,
	carts cart.CartRepository,
	productRepo products.ProductRepository,
	orderRepo orders.OrderRepository,
	loyaltyRepo LoyaltyRepository,
	shipping *ShippingCalc,
	loyalty *LoyaltyConverter,
	events eventEmitter,
	logg *logger.Logger,
	defaultLang string,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("checkout: transaction runner is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("checkout: cart repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("checkout: product repository is required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("checkout: order repository is required")
	}
	if loyaltyRepo == nil {
		return nil, fmt.Errorf("checkout: loyalty repository is required")
	}
	if shipping == nil {
		return nil, fmt.Errorf("checkout: shipping calculator is required")
	}
	if loyalty == nil {
		return nil, fmt.Errorf("checkout: loyalty converter is required")
	}
	if events == nil {
		return nil, fmt.Errorf("checkout: event emitter is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout: logger is required")
	}
	return &service{
		tx:          tx,
		carts:       carts,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		loyaltyRepo: loyaltyRepo,
		shipping:    shipping,
		loyalty:     loyalty,
		events:      events,
		logg:        logg,
		defaultLang: defaultLang,
		now:         time.Now,
	}, nil
}

// Submit re-validates stock, prices shipping and loyalty off the frozen cart
// lines and writes the order, stock decrements, point movements, cart status
// flip and outbox row in one transaction.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (orders.OrderDTO, error) {
	if customerID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires an authenticated customer")
	}
	if err := input.DeliveryAddress.Validate(); err != nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.RedeemPoints < 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "redeem_points cannot be negative")
	}

	activeCart, err := s.carts.FindActive(ctx, cart.Owner{CustomerID: &customerID})
	if err != nil {
		return orders.OrderDTO{}, err
	}
	if activeCart == nil || len(activeCart.Items) == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := decimal.Zero
	savings := decimal.Zero
	for _, item := range activeCart.Items {
		subtotal = subtotal.Add(item.Subtotal)
		savings = savings.Add(item.Savings)
	}

	shippingFee, distanceKM, err := s.shipping.Quote(input.DeliveryAddress, subtotal)
	if err != nil {
		return orders.OrderDTO{}, err
	}

	pointsRedeemed := 0
	loyaltyApplied := decimal.Zero
	if input.RedeemPoints > 0 {
		account, err := s.loyaltyRepo.FindByCustomer(ctx, customerID)
		if err != nil {
			return orders.OrderDTO{}, err
		}
		pointsRedeemed, loyaltyApplied = s.loyalty.Redeem(input.RedeemPoints, account.Points, subtotal)
	}

	total := subtotal.Add(shippingFee).Sub(loyaltyApplied)
	if total.IsNegative() {
		total = decimal.Zero
	}
	total = total.Round(2)
	pointsEarned := s.loyalty.Earn(total)

	order := &models.Order{
		ID:              uuid.New(),
		Number:          s.newOrderNumber(),
		CustomerID:      customerID,
		Status:          enums.OrderStatusPending,
		Subtotal:        subtotal,
		Savings:         savings,
		ShippingFee:     shippingFee,
		LoyaltyApplied:  loyaltyApplied,
		PointsRedeemed:  pointsRedeemed,
		PointsEarned:    pointsEarned,
		Total:           total,
		DeliveryAddress: input.DeliveryAddress,
		DistanceKM:      distanceKM,
		Note:            input.Note,
		Items:           s.orderLines(activeCart.Items),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		for _, item := range activeCart.Items {
			if err := txProducts.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		if delta := pointsEarned - pointsRedeemed; delta != 0 {
			// ensure the account row exists before the guarded update
			if _, err := s.loyaltyRepo.FindByCustomer(ctx, customerID); err != nil {
				return err
			}
			if err := s.loyaltyRepo.Adjust(tx, customerID, delta); err != nil {
				return err
			}
		}
		if err := s.carts.MarkStatus(tx, activeCart.ID, enums.CartStatusConverted); err != nil {
			return err
		}
		return s.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{CustomerID: customerID},
			Data:          s.createdPayload(order),
			OccurredAt:    s.now().UTC(),
		})
	})
	if err != nil {
		return orders.OrderDTO{}, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.Number,
		"total":        order.Total.String(),
	})
	s.logg.Info(ctx, "order submitted")
	return orders.NewOrderDTO(*order), nil
}

// orderLines copies frozen cart snapshots onto order items. Prices are never
// recomputed here.
func (s *service) orderLines(items []models.CartItem) []models.OrderItem {
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderItem{
			ProductID:     item.ProductID,
			ProductUnitID: item.ProductUnitID,
			SKU:           item.Product.SKU,
			Title:         item.Product.Title.Resolve(s.defaultLang),
			UnitName:      item.ProductUnit.UnitName,
			Quantity:      item.Quantity,
			BonusQty:      item.BonusQty,
			UnitPrice:     item.UnitPrice,
			FinalPrice:    item.FinalPrice,
			Subtotal:      item.Subtotal,
			Savings:       item.Savings,
			PromotionID:   item.PromotionID,
			PromotionType: item.PromotionType,
			PromotionName: item.PromotionName,
		})
	}
	return lines
}

func (s *service) createdPayload(order *models.Order) payloads.OrderCreatedEvent {
	lines := make([]payloads.OrderCreatedLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, payloads.OrderCreatedLine{
			ProductID:     item.ProductID,
			ProductUnitID: item.ProductUnitID,
			SKU:           item.SKU,
			Quantity:      item.Quantity,
			BonusQty:      item.BonusQty,
			FinalPrice:    item.FinalPrice,
			Subtotal:      item.Subtotal,
		})
	}
	return payloads.OrderCreatedEvent{
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		CustomerID:     order.CustomerID,
		Subtotal:       order.Subtotal,
		Savings:        order.Savings,
		ShippingFee:    order.ShippingFee,
		LoyaltyApplied: order.LoyaltyApplied,
		Total:          order.Total,
		PointsEarned:   order.PointsEarned,
		Lines:          lines,
	}
}

func (s *service) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("GRO-%s-%s", s.now().UTC().Format("20060102"), suffix)
}
