package api

import (
	"net/http"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
	"github.com/ridepay/payments-backend/stripe"
)

// connectOnboardingLinkHandler returns a fresh Connect onboarding link for
// the authenticated driver, creating the Express account on first use.
// Riders cannot onboard for payouts.
func (a *API) connectOnboardingLinkHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if user.Role != db.DriverRole {
		errors.ErrNotADriver.Write(w)
		return
	}

	link, err := a.stripe.OnboardingLink(user.ID)
	if err != nil {
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	// the account ID was persisted by the service on first creation
	refreshed, err := a.db.User(user.ID)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, &apicommon.OnboardingLinkResponse{
		URL:       link.URL,
		AccountID: refreshed.StripeAccountID,
		ExpiresAt: link.ExpiresAt,
	}, http.StatusCreated)
}

// connectAccountStatusHandler returns the onboarding status of the
// authenticated driver's Connect account.
func (a *API) connectAccountStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if user.Role != db.DriverRole {
		errors.ErrNotADriver.Write(w)
		return
	}

	status, err := a.stripe.ConnectAccountStatus(user.ID)
	if err != nil {
		if err == stripe.ErrAccountNotOnboarded {
			errors.ErrConnectAccountNotSet.Write(w)
			return
		}
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, status)
}
