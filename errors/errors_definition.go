// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the
// current last 4XXXX or 5XXXX. If you notice a gap, don't fill it in: that code
// was used in the past for some error (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	// Authentication errors (401)
	ErrUnauthorized = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}
	ErrInvalidLogin = Error{Code: 40002, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid email or password"), LogLevel: "info"}
	ErrExpiredToken = Error{Code: 40003, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("token has expired"), LogLevel: "info"}
	ErrNotTheOwner  = Error{Code: 40004, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("resource belongs to another user"), LogLevel: "info"}
	ErrNotADriver   = Error{Code: 40005, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("driver account required"), LogLevel: "info"}

	// Validation errors (400)
	ErrMalformedBody     = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrMalformedURLParam = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidAmount     = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid amount or currency")}
	ErrInvalidUserData   = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid user information provided")}
	ErrEmailMalformed    = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort  = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrInvalidPayoutData = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid payout method data")}

	// Not found errors (404)
	ErrUserNotFound         = Error{Code: 40009, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not found")}
	ErrPayoutMethodNotFound = Error{Code: 40014, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("payout method not found")}
	ErrCustomerNotFound     = Error{Code: 40015, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("customer not found")}
	ErrPaymentNotFound      = Error{Code: 40016, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("payment not found")}
	ErrConnectAccountNotSet = Error{Code: 40017, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("connect account not onboarded")}

	// Conflict errors (409)
	ErrDuplicateConflict  = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource already exists")}
	ErrDefaultMethodInUse = Error{Code: 40902, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("default payout method cannot be deleted")}

	// Webhook errors (400)
	ErrWebhookSignature = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("webhook signature verification failed"), LogLevel: "warn"}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
	ErrStripeError                = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrStripeWebhookError         = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: stripe webhook failed"), LogLevel: "error"}
	ErrPayPalError                = Error{Code: 50006, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: paypal request failed"), LogLevel: "error"}
)
