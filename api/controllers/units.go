package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grocerly-app/storefront-backend/api/responses"
	"github.com/grocerly-app/storefront-backend/api/validators"
	productsvc "github.com/grocerly-app/storefront-backend/internal/products"
	unitsvc "github.com/grocerly-app/storefront-backend/internal/units"
	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/logger"
)

// ResolveProductUnits returns every selectable unit for a product. The
// resolver degrades to a synthesized unit instead of failing, so this
// endpoint only errors when the product itself is unknown.
func ResolveProductUnits(products productsvc.ProductRepository, units unitsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil || units == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "unit service unavailable"))
			return
		}

		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.FindByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, units.Resolve(r.Context(), product))
	}
}
