package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/api/middleware"
	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	cartsvc "github.com/grocerly-app/storefront-backend/internal/cart"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// cartOwner resolves the cart identity from the request context. Logged-in
// customers own carts by id, anonymous shoppers by the X-Session-Id header.
func cartOwner(r *http.Request) (cartsvc.Owner, error) {
	if customerID := middleware.CustomerIDFromContext(r.Context()); customerID != uuid.Nil {
		return cartsvc.Owner{CustomerID: &customerID}, nil
	}
	if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
		return cartsvc.Owner{SessionID: sessionID}, nil
	}
	return cartsvc.Owner{}, pkgerrors.New(pkgerrors.CodeValidation, "a bearer token or X-Session-Id header is required")
}

func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetCart(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type addCartItemRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	ProductUnitID string `json:"product_unit_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		unitID, err := uuid.Parse(payload.ProductUnitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product unit id"))
			return
		}

		dto, err := svc.AddItem(r.Context(), owner, cartsvc.AddItemInput{
			ProductID:     productID,
			ProductUnitID: unitID,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateItemQuantity(r.Context(), owner, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveItem(r.Context(), owner, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClearCart(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
