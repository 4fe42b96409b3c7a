package api

import (
	"net/http"
	"strconv"

	"github.com/ridepay/payments-backend/api/apicommon"
	"github.com/ridepay/payments-backend/db"
	"github.com/ridepay/payments-backend/errors"
)

// paymentsHandler returns the authenticated user's payment history, newest
// first. The optional limit query parameter caps the page size.
func (a *API) paymentsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	limit := int64(apicommon.MaxPaymentsPageSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			errors.ErrMalformedURLParam.With("invalid limit").Write(w)
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	payments, err := a.db.Payments(user.ID, limit)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	res := &apicommon.PaymentsResponse{Payments: []db.Payment{}}
	for _, p := range payments {
		res.Payments = append(res.Payments, *p)
	}
	apicommon.HTTPWriteJSON(w, res)
}
