package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	promosvc "github.com/grocerly-app/storefront-backend/internal/promotions"
	"github.com/grocerly-app/storefront-backend/pkg/enums"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// ListPromotionsForUnit returns live promotions scoped to a product unit.
func ListPromotionsForUnit(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		unitID, err := validators.ParseURLUUID(chi.URLParam(r, "unitId"), "unitId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// productId widens the match to product-scoped promotions
		var productID uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("productId")); raw != "" {
			productID, err = validators.ParseURLUUID(raw, "productId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		promos, err := svc.ListForUnit(r.Context(), productID, unitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promosvc.NewPromotionDTOs(promos))
	}
}

// ListPromotionsForProduct returns live promotions for any unit of a product.
func ListPromotionsForProduct(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promos, err := svc.ListForProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promosvc.NewPromotionDTOs(promos))
	}
}

// ListActivePromotions returns every live promotion, optionally filtered by
// type.
func ListActivePromotions(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var promoType *enums.PromotionType
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParsePromotionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion type"))
				return
			}
			promoType = &parsed
		}

		promos, err := svc.ListActive(r.Context(), promoType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promosvc.NewPromotionDTOs(promos))
	}
}
