package api

import (
	"encoding/json"
	"net/http"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/errors"
)

// createRefundHandler refunds a captured trip fare, fully or partially.
func (a *API) createRefundHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	req := &apicommon.RefundRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	refund, err := a.stripe.RefundPayment(user.ID, req.PaymentIntentID, req.Amount, req.Reason)
	if err != nil {
		writeStripeServiceError(w, err)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, &apicommon.RefundResponse{
		ID:       refund.ID,
		Status:   string(refund.Status),
		Amount:   refund.Amount,
		Currency: string(refund.Currency),
	}, http.StatusCreated)
}
