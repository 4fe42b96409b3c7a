package api

import (
	"io"
	"net/http"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/errors"
	"github.com/ridepay/payments-backend/stripe"
)

// stripeWebhookHandler receives Stripe events. The request is authenticated
// by its Stripe-Signature header, not by JWT, and the raw body is size
// limited before signature verification.
func (a *API) stripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, apicommon.MaxWebhookBodySize))
	if err != nil {
		errors.ErrMalformedBody.With("could not read webhook body").Write(w)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		errors.ErrWebhookSignature.With("missing Stripe-Signature header").Write(w)
		return
	}

	if err := a.stripe.HandleWebhookEvent(payload, signature); err != nil {
		if stripe.IsWebhookValidationError(err) {
			errors.ErrWebhookSignature.Write(w)
			return
		}
		errors.ErrStripeWebhookError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
