package promotions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// Service exposes promotion reads for the storefront.
type Service interface {
	GetPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	ListForUnit(ctx context.Context, productID, unitID uuid.UUID) ([]models.Promotion, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.Promotion, error)
	ListActive(ctx context.Context, promoType *enums.PromotionType) ([]models.Promotion, error)
}

// promoCache is the slice of the redis client the service needs.
type promoCache interface {
	GetCachedPromotions(ctx context.Context, key string) (string, error)
	CachePromotions(ctx context.Context, key, payload string, ttl time.Duration) error
	PromoProductKey(productID string) string
	PromoUnitKey(productUnitID string) string
}

type service struct {
	repo     PromotionRepository
	cache    promoCache
	cacheTTL time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a promotion service. The cache is optional; a nil
// cache serves straight from the repository.
func NewService(repo PromotionRepository, cache promoCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) GetPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id is required")
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "promotion not found")
	}
	if !promo.InWindow(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion is not active")
	}
	return promo, nil
}

func (s *service) ListForUnit(ctx context.Context, productID, unitID uuid.UUID) ([]models.Promotion, error) {
	if unitID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product unit id is required")
	}
	key := ""
	if s.cache != nil {
		key = s.cache.PromoUnitKey(unitID.String())
	}
	return s.cached(ctx, key, func() ([]models.Promotion, error) {
		return s.repo.ListForUnit(ctx, productID, unitID, s.now())
	})
}

func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.Promotion, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key := ""
	if s.cache != nil {
		key = s.cache.PromoProductKey(productID.String())
	}
	return s.cached(ctx, key, func() ([]models.Promotion, error) {
		return s.repo.ListForProduct(ctx, productID, s.now())
	})
}

func (s *service) ListActive(ctx context.Context, promoType *enums.PromotionType) ([]models.Promotion, error) {
	if promoType != nil && !promoType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid promotion type %q", *promoType))
	}
	return s.repo.ListActive(ctx, promoType, s.now())
}

// cached serves from redis when possible. Cache failures are logged and the
// repository read proceeds; a broken cache never blocks browsing.
func (s *service) cached(ctx context.Context, key string, load func() ([]models.Promotion, error)) ([]models.Promotion, error) {
	if s.cache != nil && key != "" {
		if payload, err := s.cache.GetCachedPromotions(ctx, key); err == nil {
			var rows []models.Promotion
			if jsonErr := json.Unmarshal([]byte(payload), &rows); jsonErr == nil {
				return rows, nil
			}
		}
	}

	rows, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil && key != "" {
		if payload, jsonErr := json.Marshal(rows); jsonErr == nil {
			if cacheErr := s.cache.CachePromotions(ctx, key, string(payload), s.cacheTTL); cacheErr != nil {
				s.logg.Warn(ctx, fmt.Sprintf("promotion cache write failed: %v", cacheErr))
			}
		}
	}
	return rows, nil
}
