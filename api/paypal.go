package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/errors"
	"github.com/ridepay/payments-backend/internal"
	"github.com/ridepay/payments-backend/paypal"
)

// createPayPalOrderHandler creates a PayPal order for a trip fare. AUTHORIZE
// orders place a hold that is captured at trip end, CAPTURE orders settle
// immediately on approval.
func (a *API) createPayPalOrderHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	req := &apicommon.PayPalOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrInvalidAmount.WithErr(err).Write(w)
		return
	}

	order, err := a.paypal.CreateOrder(r.Context(), user.ID, &paypal.CreateOrderParams{
		Intent:      paypal.OrderIntent(req.Intent),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		ReferenceID: req.TripID,
	})
	if err != nil {
		errors.ErrPayPalError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSONWithStatus(w, order, http.StatusCreated)
}

// capturePayPalOrderHandler captures an approved CAPTURE order.
func (a *API) capturePayPalOrderHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		errors.ErrMalformedURLParam.With("missing order ID").Write(w)
		return
	}

	order, err := a.paypal.CaptureOrder(r.Context(), user.ID, orderID)
	if err != nil {
		writePayPalServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, order)
}

// capturePayPalAuthorizationHandler captures a trip authorization, optionally
// for a lower amount than was authorized.
func (a *API) capturePayPalAuthorizationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	authorizationID := chi.URLParam(r, "authorizationID")
	if authorizationID == "" {
		errors.ErrMalformedURLParam.With("missing authorization ID").Write(w)
		return
	}

	req := &apicommon.PayPalCaptureRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	var amount *paypal.Money
	if req.Amount > 0 {
		payment, err := a.db.Payment(req.OrderID)
		if err != nil {
			errors.ErrPaymentNotFound.Write(w)
			return
		}
		amount = &paypal.Money{
			CurrencyCode: strings.ToUpper(payment.Currency),
			Value:        internal.FormatDecimal(req.Amount, payment.Currency),
		}
	}

	capture, err := a.paypal.CaptureAuthorization(r.Context(), user.ID, req.OrderID, authorizationID, amount)
	if err != nil {
		writePayPalServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, capture)
}

// voidPayPalAuthorizationHandler voids a trip authorization, releasing the
// hold on the payer's funds.
func (a *API) voidPayPalAuthorizationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	authorizationID := chi.URLParam(r, "authorizationID")
	if authorizationID == "" {
		errors.ErrMalformedURLParam.With("missing authorization ID").Write(w)
		return
	}

	req := &apicommon.PayPalCaptureRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.OrderID == "" {
		errors.ErrMalformedBody.With("orderId is required").Write(w)
		return
	}

	if err := a.paypal.VoidAuthorization(r.Context(), user.ID, req.OrderID, authorizationID); err != nil {
		writePayPalServiceError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// writePayPalServiceError maps paypal service errors to API errors.
func writePayPalServiceError(w http.ResponseWriter, err error) {
	switch err {
	case paypal.ErrOrderNotFound:
		errors.ErrPaymentNotFound.Write(w)
	case paypal.ErrNotOrderOwner:
		errors.ErrNotTheOwner.Write(w)
	default:
		errors.ErrPayPalError.WithErr(err).Write(w)
	}
}
