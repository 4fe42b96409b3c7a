package api

import (
	"net/http"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/errors"
)

// createSetupIntentHandler starts saving a reusable payment method for the
// authenticated user.
func (a *API) createSetupIntentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	intent, err := a.stripe.CreateSetupIntent(user.ID)
	if err != nil {
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, &apicommon.SetupIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, http.StatusCreated)
}
