package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
)

// createPayoutMethodHandler registers a bank account or PayPal payout
// destination for the authenticated user. The first method registered
// becomes the default automatically.
func (a *API) createPayoutMethodHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	req := &apicommon.PayoutMethodRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrInvalidPayoutData.WithErr(err).Write(w)
		return
	}

	method := &db.PayoutMethod{
		UserID:      user.ID,
		Type:        db.PayoutType(req.Type),
		HolderName:  req.HolderName,
		BankName:    req.BankName,
		Last4:       req.Last4,
		Country:     req.Country,
		Currency:    req.Currency,
		PayPalEmail: req.PayPalEmail,
	}
	// per-type required details, beyond what struct tags can express
	switch method.Type {
	case db.PayoutTypeBankAccount:
		if method.HolderName == "" || method.Last4 == "" || method.Currency == "" {
			errors.ErrInvalidPayoutData.With("bank account requires holder name, last4 and currency").Write(w)
			return
		}
	case db.PayoutTypePayPal:
		if method.PayPalEmail == "" {
			errors.ErrInvalidPayoutData.With("paypal payout requires a paypal email").Write(w)
			return
		}
	}

	id, err := a.db.SetPayoutMethod(method)
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrInvalidPayoutData.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	created, err := a.db.PayoutMethod(id)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSONWithStatus(w, created, http.StatusCreated)
}

// listPayoutMethodsHandler lists the authenticated user's payout methods,
// default first.
func (a *API) listPayoutMethodsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	methods, err := a.db.PayoutMethods(user.ID)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	res := &apicommon.PayoutMethodsResponse{Methods: []db.PayoutMethod{}}
	for _, m := range methods {
		res.Methods = append(res.Methods, *m)
	}
	apicommon.HTTPWriteJSON(w, res)
}

// getPayoutMethodHandler returns one payout method. Reading another user's
// method is rejected with a 403.
func (a *API) getPayoutMethodHandler(w http.ResponseWriter, r *http.Request) {
	_, method, ok := a.payoutMethodFromRequest(w, r)
	if !ok {
		return
	}
	apicommon.HTTPWriteJSON(w, method)
}

// deletePayoutMethodHandler removes a payout method. The default method
// cannot be deleted while other methods remain.
func (a *API) deletePayoutMethodHandler(w http.ResponseWriter, r *http.Request) {
	user, method, ok := a.payoutMethodFromRequest(w, r)
	if !ok {
		return
	}

	if err := a.db.DelPayoutMethod(user.ID, method.ID); err != nil {
		switch err {
		case db.ErrNotFound:
			errors.ErrPayoutMethodNotFound.Write(w)
		case db.ErrDefaultInUse:
			errors.ErrDefaultMethodInUse.Write(w)
		default:
			errors.ErrInternalStorageError.WithErr(err).Write(w)
		}
		return
	}
	apicommon.HTTPWriteOK(w)
}

// setDefaultPayoutMethodHandler promotes a payout method to be the user's
// default, demoting any previous default.
func (a *API) setDefaultPayoutMethodHandler(w http.ResponseWriter, r *http.Request) {
	user, method, ok := a.payoutMethodFromRequest(w, r)
	if !ok {
		return
	}

	if err := a.db.SetDefaultPayoutMethod(user.ID, method.ID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrPayoutMethodNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	updated, err := a.db.PayoutMethod(method.ID)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, updated)
}

// payoutMethodFromRequest resolves the {payoutMethodID} URL parameter and
// enforces ownership: a method that exists but belongs to another user is a
// 403, a missing one is a 404.
func (a *API) payoutMethodFromRequest(w http.ResponseWriter, r *http.Request) (*db.User, *db.PayoutMethod, bool) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return nil, nil, false
	}
	methodID := chi.URLParam(r, "payoutMethodID")
	if methodID == "" {
		errors.ErrMalformedURLParam.With("missing payout method ID").Write(w)
		return nil, nil, false
	}
	method, err := a.db.PayoutMethod(methodID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPayoutMethodNotFound.Write(w)
			return nil, nil, false
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return nil, nil, false
	}
	if method.UserID != user.ID {
		errors.ErrNotTheOwner.Write(w)
		return nil, nil, false
	}
	return user, method, true
}
