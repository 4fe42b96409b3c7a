package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
)

// authenticator is a middleware that authenticates the user from the JWT
// token. If successful, it decodes the user identifier (its email) from the
// JWT token and gets the user information from the database, then adds the
// user data to the request context and passes it to the next handler.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
			errors.ErrUnauthorized.Withf("userId claim not found in JWT token").Write(w)
			return
		}
		// retrieve the `userId` from the claims
		userEmail, ok := claims["userId"].(string)
		if !ok {
			errors.ErrUnauthorized.Withf("invalid userId claim").Write(w)
			return
		}
		// get the user from the database
		user, err := a.db.UserByEmail(userEmail)
		if err != nil {
			if err == db.ErrNotFound {
				errors.ErrUnauthorized.Withf("user not found").Write(w)
				return
			}
			errors.ErrGenericInternalServerError.Withf("could not retrieve user from database: %v", err).Write(w)
			return
		}
		// add the user to the context
		ctx := context.WithValue(r.Context(), apicommon.UserMetadataKey, *user)
		// token is authenticated, pass it through with the new context with the
		// user information
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
