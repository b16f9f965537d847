package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/grocerly-app/storefront-backend/api/middleware"
	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	checkoutsvc "github.com/grocerly-app/storefront-backend/internal/checkout"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
	"github.com/grocerly-app/storefront-backend/pkg/types"
)

type checkoutAddressRequest struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country,omitempty"`
	Lat        float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng        float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type checkoutRequest struct {
	DeliveryAddress checkoutAddressRequest `json:"delivery_address" validate:"required"`
	RedeemPoints    int                    `json:"redeem_points,omitempty" validate:"omitempty,min=0"`
	Note            *string                `json:"note,omitempty" validate:"omitempty,max=500"`
}

// SubmitOrder converts the customer's active cart into an order.
func SubmitOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note := payload.Note
		if note != nil {
			trimmed := validators.SanitizeString(*note, 500)
			note = &trimmed
		}

		order, err := svc.Submit(r.Context(), customerID, checkoutsvc.SubmitInput{
			DeliveryAddress: types.Address{
				Line1:      validators.SanitizeString(payload.DeliveryAddress.Line1, 200),
				Line2:      payload.DeliveryAddress.Line2,
				City:       validators.SanitizeString(payload.DeliveryAddress.City, 100),
				State:      validators.SanitizeString(payload.DeliveryAddress.State, 100),
				PostalCode: validators.SanitizeString(payload.DeliveryAddress.PostalCode, 20),
				Country:    validators.SanitizeString(payload.DeliveryAddress.Country, 2),
				Lat:        payload.DeliveryAddress.Lat,
				Lng:        payload.DeliveryAddress.Lng,
			},
			RedeemPoints: payload.RedeemPoints,
			Note:         note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
