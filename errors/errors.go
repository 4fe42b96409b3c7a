package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

// Error is used by handler functions to wrap errors, assigning a unique error code
// and also specifying which HTTP Status should be used.
type Error struct {
	Err        error  // Original error
	Code       int    // Error code
	HTTPstatus int    // HTTP status code to return
	LogLevel   string // Log level for this error (defaults to "debug")
}

// envelope is the uniform error response body. Every response of the API,
// success or failure, carries the same top-level shape.
type envelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Code       int    `json:"code"`
	Timestamp  string `json:"timestamp"`
	StatusCode int    `json:"statusCode"`
}

// MarshalJSON returns the error envelope containing Err.Error() and Code.
//
// Example output: {"success":false,"error":"payout method not found","code":40009,...}
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Success:    false,
		Error:      e.Err.Error(),
		Code:       e.Code,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: e.HTTPstatus,
	})
}

// Error returns the message contained inside the Error
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes the error envelope and passes it to http.Error().
// It also logs the error with the appropriate level.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal error response")
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}

	// caller information makes 5xx errors traceable in the logs
	pc, file, line, _ := runtime.Caller(1)
	caller := runtime.FuncForPC(pc).Name()

	if e.HTTPstatus >= 500 {
		log.Error().
			Err(e.Err).
			Int("code", e.Code).
			Int("status", e.HTTPstatus).
			Str("caller", caller).
			Str("file", fmt.Sprintf("%s:%d", file, line)).
			Msg("API error response")
	} else {
		ev := log.Debug()
		switch e.LogLevel {
		case "info":
			ev = log.Info()
		case "warn":
			ev = log.Warn()
		}
		ev.Int("code", e.Code).
			Int("status", e.HTTPstatus).
			Str("caller", caller).
			Msgf("API error response: %s", e.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of Error with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
		LogLevel:   e.LogLevel,
	}
}

// With returns a copy of Error with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
		LogLevel:   e.LogLevel,
	}
}

// WithErr returns a copy of Error with err.Error() appended at the end of e.Err
// The original error is preserved for logging purposes
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
		LogLevel:   e.LogLevel,
	}
}

// WithLogLevel returns a copy of Error with the specified log level
func (e Error) WithLogLevel(level string) Error {
	return Error{
		Err:        e.Err,
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
		LogLevel:   level,
	}
}
