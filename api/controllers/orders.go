package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/api/middleware"
	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	ordersvc "github.com/grocerly-app/storefront-backend/internal/orders"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// ListOrders pages the authenticated customer's order history.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), customerID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrder returns one of the authenticated customer's orders.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing"))
			return
		}

		orderID, err := validators.ParseURLUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
