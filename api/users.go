package api

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
)

// registerHandler registers a new rider or driver account. The password is
// stored as a bcrypt hash.
func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	userInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if err := a.validator.Validate(userInfo); err != nil {
		errors.ErrInvalidUserData.WithErr(err).Write(w)
		return
	}

	role := db.UserRole(userInfo.Role)
	if userInfo.Role == "" {
		role = db.RiderRole
	}
	if !db.ValidRole(role) {
		errors.ErrInvalidUserData.Withf("invalid role %q", userInfo.Role).Write(w)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(userInfo.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}

	userID, err := a.db.SetUser(&db.User{
		Email:     userInfo.Email,
		Password:  string(hashed),
		FirstName: userInfo.FirstName,
		LastName:  userInfo.LastName,
		Role:      role,
	})
	if err != nil {
		if err == db.ErrAlreadyExists {
			errors.ErrDuplicateConflict.With("email already registered").Write(w)
			return
		}
		if err == db.ErrInvalidData {
			errors.ErrInvalidUserData.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	apicommon.HTTPWriteJSONWithStatus(w, &apicommon.UserResponse{
		ID:    userID,
		Email: userInfo.Email,
		Role:  role,
	}, http.StatusCreated)
}

// userInfoHandler returns the authenticated user's information.
func (a *API) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		StripeAccountID: user.StripeAccountID,
	})
}
