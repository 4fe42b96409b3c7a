package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
)

// createCustomerHandler creates the Stripe customer for the authenticated
// user, if it does not exist yet.
func (a *API) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	customer, err := a.stripe.EnsureCustomer(user.ID)
	if err != nil {
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, customerResponse(customer), http.StatusCreated)
}

// getOwnCustomerHandler returns the authenticated user's customer record.
func (a *API) getOwnCustomerHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	customer, err := a.db.Customer(user.ID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrCustomerNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, customerResponse(customer))
}

// getCustomerHandler returns a customer by user ID. Users can only read
// their own customer record.
func (a *API) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := a.customerRequestUser(w, r)
	if !ok {
		return
	}

	customer, err := a.db.Customer(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrCustomerNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, customerResponse(customer))
}

// updateCustomerHandler updates the customer's email or name, locally and
// on Stripe.
func (a *API) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := a.customerRequestUser(w, r)
	if !ok {
		return
	}

	req := &apicommon.CustomerRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	customer, err := a.stripe.UpdateCustomer(userID, req.Email, req.Name)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrCustomerNotFound.Write(w)
			return
		}
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, customerResponse(customer))
}

// deleteCustomerHandler removes the customer on Stripe and locally.
func (a *API) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := a.customerRequestUser(w, r)
	if !ok {
		return
	}

	if err := a.stripe.DeleteCustomer(userID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrCustomerNotFound.Write(w)
			return
		}
		errors.ErrStripeError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// customerRequestUser resolves the {userID} URL parameter and enforces that
// it matches the authenticated user.
func (a *API) customerRequestUser(w http.ResponseWriter, r *http.Request) (*db.User, uint64, bool) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return nil, 0, false
	}
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		errors.ErrMalformedURLParam.With("invalid user ID").Write(w)
		return nil, 0, false
	}
	if userID != user.ID {
		errors.ErrNotTheOwner.Write(w)
		return nil, 0, false
	}
	return user, userID, true
}

func customerResponse(customer *db.Customer) *apicommon.CustomerResponse {
	return &apicommon.CustomerResponse{
		UserID:           customer.UserID,
		StripeCustomerID: customer.StripeCustomerID,
		Email:            customer.Email,
		Name:             customer.Name,
	}
}
