package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/errors"
	"github.com/ridepay/payments-backend/stripe"
)

// createPaymentIntentHandler authorizes a trip fare on the rider's payment
// method. The intent uses manual capture so the final fare is captured at
// trip end.
func (a *API) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	req := &apicommon.PaymentIntentRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrInvalidAmount.WithErr(err).Write(w)
		return
	}

	intent, err := a.stripe.CreateTripPayment(&stripe.TripPaymentRequest{
		UserID:         user.ID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		TripID:         req.TripID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeStripeServiceError(w, err)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, &apicommon.PaymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, http.StatusCreated)
}

// capturePaymentIntentHandler captures an authorized trip fare, optionally
// for a lower amount than was authorized.
func (a *API) capturePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	intentID := chi.URLParam(r, "paymentIntentID")
	if intentID == "" {
		errors.ErrMalformedURLParam.With("missing payment intent ID").Write(w)
		return
	}

	req := &apicommon.CaptureRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			errors.ErrMalformedBody.Write(w)
			return
		}
		if err := a.validator.Validate(req); err != nil {
			errors.ErrInvalidAmount.WithErr(err).Write(w)
			return
		}
	}

	intent, err := a.stripe.CapturePayment(user.ID, intentID, req.Amount)
	if err != nil {
		writeStripeServiceError(w, err)
		return
	}

	apicommon.HTTPWriteJSON(w, &apicommon.PaymentIntentResponse{
		ID:       intent.ID,
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
	})
}

// cancelPaymentIntentHandler releases the hold of an authorized trip fare.
func (a *API) cancelPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	intentID := chi.URLParam(r, "paymentIntentID")
	if intentID == "" {
		errors.ErrMalformedURLParam.With("missing payment intent ID").Write(w)
		return
	}

	intent, err := a.stripe.CancelPayment(user.ID, intentID)
	if err != nil {
		writeStripeServiceError(w, err)
		return
	}

	apicommon.HTTPWriteJSON(w, &apicommon.PaymentIntentResponse{
		ID:       intent.ID,
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
	})
}

// writeStripeServiceError maps stripe service errors to API errors.
func writeStripeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case stripe.ErrPaymentNotFound:
		errors.ErrPaymentNotFound.Write(w)
	case stripe.ErrNotPaymentOwner:
		errors.ErrNotTheOwner.Write(w)
	case stripe.ErrAccountNotOnboarded:
		errors.ErrConnectAccountNotSet.Write(w)
	default:
		if stripe.IsInvalidAmountError(err) {
			errors.ErrInvalidAmount.WithErr(err).Write(w)
			return
		}
		errors.ErrStripeError.WithErr(err).Write(w)
	}
}
