package orders

import (
	"net/http"

	"github.com/simplezakka/zakka-backend/api/middleware"
	"github.com/simplezakka/zakka-backend/api/responses"
	"github.com/simplezakka/zakka-backend/api/validators"
	"github.com/simplezakka/zakka-backend/internal/cart"
	internalorders "github.com/simplezakka/zakka-backend/internal/orders"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
	"github.com/simplezakka/zakka-backend/pkg/logger"
)

// Confirm places an order from the session cart. Authenticated callers are
// always attributed to the token's customer; guests may not claim one.
func Confirm(svc internalorders.Service, carts cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var input internalorders.PlaceOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := middleware.CustomerIDFromContext(r.Context())
		switch {
		case customerID > 0:
			input.CustomerInfo.CustomerID = customerID
		case input.CustomerInfo.CustomerID != 0:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to order as a member"))
			return
		}

		sessionID := middleware.CartSessionFromContext(r.Context())
		snapshot, err := carts.GetOrCreateCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placed, err := svc.PlaceOrder(r.Context(), snapshot, input, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

// History lists the caller's orders, newest first.
func History(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := requireCustomer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.History(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// Detail returns one of the caller's orders. Orders owned by someone else
// answer ORDER_NOT_FOUND.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := requireCustomer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func requireCustomer(r *http.Request) (int64, error) {
	id := middleware.CustomerIDFromContext(r.Context())
	if id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	return id, nil
}
