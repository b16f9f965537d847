package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	pricingsvc "github.com/grocerly-app/storefront-backend/internal/pricing"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

type quoteRequest struct {
	ProductID     string  `json:"product_id" validate:"required,uuid"`
	ProductUnitID *string `json:"product_unit_id,omitempty" validate:"omitempty,uuid"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
}

// Quote prices one (product, unit, quantity) line.
func Quote(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		input := pricingsvc.QuoteInput{ProductID: productID, Quantity: payload.Quantity}
		if payload.ProductUnitID != nil {
			unitID, err := uuid.Parse(*payload.ProductUnitID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product unit id"))
				return
			}
			input.ProductUnitID = &unitID
		}

		info, err := svc.QuoteForUnit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

type comboQuoteRequest struct {
	Selections map[string]int `json:"selections" validate:"required,min=1"`
}

// ComboQuote prices an assorted-items selection against a combo promotion.
func ComboQuote(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		promotionID, err := validators.ParseURLUUID(chi.URLParam(r, "promotionId"), "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload comboQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selections := pricingsvc.ComboSelection{}
		for raw, qty := range payload.Selections {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id in selections"))
				return
			}
			if qty <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "selection quantities must be positive"))
				return
			}
			selections[productID] = qty
		}

		result, err := svc.ComboQuoteByPromotion(r.Context(), promotionID, selections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
