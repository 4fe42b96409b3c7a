package apicommon

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ridepay/payments-backend/db"
)

// UserFromContext retrieves the user from the context provided, expected to be
// the context of a request handled by the authenticator middleware.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	rawUser, ok := ctx.Value(UserMetadataKey).(db.User)
	if ok {
		return &rawUser, ok
	}
	return nil, false
}

// successEnvelope is the uniform body for successful responses. It mirrors
// the shape of the error envelope so clients decode a single format.
type successEnvelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Timestamp  string `json:"timestamp"`
	StatusCode int    `json:"statusCode"`
}

// HTTPWriteJSON writes data inside the success envelope with status 200.
func HTTPWriteJSON(w http.ResponseWriter, data any) {
	HTTPWriteJSONWithStatus(w, data, http.StatusOK)
}

// HTTPWriteJSONWithStatus writes data inside the success envelope with the
// given HTTP status.
func HTTPWriteJSONWithStatus(w http.ResponseWriter, data any, status int) {
	body := successEnvelope{
		Success:    true,
		Data:       data,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: status,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to write on response")
	}
}

// HTTPWriteOK writes an empty success envelope.
func HTTPWriteOK(w http.ResponseWriter) {
	HTTPWriteJSONWithStatus(w, nil, http.StatusOK)
}
