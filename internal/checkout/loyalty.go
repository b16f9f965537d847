package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/grocerly-app/storefront-backend/pkg/config"
	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
)

// LoyaltyRepository reads and adjusts customer point balances.
type LoyaltyRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error)
	Adjust(tx *gorm.DB, customerID uuid.UUID, delta int) error
}

type loyaltyRepository struct {
	conn *gorm.DB
}

func NewLoyaltyRepository(conn *gorm.DB) (LoyaltyRepository, error) {
	if conn == nil {
		return nil, fmt.Errorf("checkout: gorm connection is required")
	}
	return &loyaltyRepository{conn: conn}, nil
}

// FindByCustomer returns the account, creating a zero-balance row on first use.
func (r *loyaltyRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.conn.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.LoyaltyAccount{CustomerID: customerID, Points: 0}
		if err := r.conn.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
			Create(&account).Error; err != nil {
			return nil, fmt.Errorf("creating loyalty account: %w", err)
		}
		return &account, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading loyalty account: %w", err)
	}
	return &account, nil
}

// Adjust applies a signed point delta. The points >= 0 check constraint plus
// the guarded UPDATE keep balances from going negative under concurrency.
func (r *loyaltyRepository) Adjust(tx *gorm.DB, customerID uuid.UUID, delta int) error {
	if tx == nil {
		return fmt.Errorf("checkout: transaction is required for point adjustment")
	}
	res := tx.Model(&models.LoyaltyAccount{}).
		Where("customer_id = ? AND points + ? >= 0", customerID, delta).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjusting loyalty points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient loyalty points")
	}
	return nil
}

// LoyaltyConverter translates between points and money using the configured
// conversion rates.
type LoyaltyConverter struct {
	pointValue    decimal.Decimal
	earnPerAmount decimal.Decimal
}

func NewLoyaltyConverter(cfg config.LoyaltyConfig) (*LoyaltyConverter, error) {
	pointValue, err := decimal.NewFromString(cfg.PointValue)
	if err != nil {
		return nil, fmt.Errorf("parsing loyalty point value: %w", err)
	}
	earnPer, err := decimal.NewFromString(cfg.EarnPerAmount)
	if err != nil {
		return nil, fmt.Errorf("parsing loyalty earn rate: %w", err)
	}
	if pointValue.LessThanOrEqual(decimal.Zero) || earnPer.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("loyalty conversion rates must be positive")
	}
	return &LoyaltyConverter{pointValue: pointValue, earnPerAmount: earnPer}, nil
}

// Redeem clamps a redemption request to the account balance and to the
// subtotal, returning the points actually burned and their money value.
func (c *LoyaltyConverter) Redeem(requested, balance int, subtotal decimal.Decimal) (int, decimal.Decimal) {
	if requested <= 0 || balance <= 0 {
		return 0, decimal.Zero
	}
	points := requested
	if points > balance {
		points = balance
	}
	discount := c.pointValue.Mul(decimal.NewFromInt(int64(points)))
	if discount.GreaterThan(subtotal) {
		points = int(subtotal.Div(c.pointValue).Floor().IntPart())
		discount = c.pointValue.Mul(decimal.NewFromInt(int64(points)))
	}
	return points, discount.Round(2)
}

// Earn returns the points granted for an order total.
func (c *LoyaltyConverter) Earn(total decimal.Decimal) int {
	if total.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(total.Div(c.earnPerAmount).Floor().IntPart())
}
