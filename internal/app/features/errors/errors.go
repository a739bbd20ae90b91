// internal/app/features/errors/errors.go
//
// Package errors writes JSON error responses. Domain failures carry a
// grouperr kind that maps to a status and a stable "code" field.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/groupwork/internal/domain/grouperr"
	"go.uber.org/zap"
)

// Response is the body of every error reply.
type Response struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Codes for failures that are not domain kinds.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeServerError  = "server_error"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends an error reply.
func Write(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, Response{Error: msg, Code: code})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, CodeBadRequest, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	Write(w, http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(w http.ResponseWriter, msg string) {
	Write(w, http.StatusForbidden, CodeForbidden, msg)
}

// StatusFor returns the HTTP status for a domain failure kind.
func StatusFor(kind grouperr.Kind) int {
	switch kind {
	case grouperr.KindNotAuthorized:
		return http.StatusForbidden
	case grouperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// ErrorLogger logs server-side failures and writes the matching reply.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err and replies 500 with a generic message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	e.Log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	Write(w, http.StatusInternalServerError, CodeServerError, "A server error occurred.")
}

// Domain replies for err. Domain failures get their kind's status, code,
// message and details; anything else is logged as a server error.
func (e *ErrorLogger) Domain(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	var ge *grouperr.Error
	if stderrors.As(err, &ge) {
		WriteJSON(w, StatusFor(ge.Kind), Response{
			Error:   ge.Message,
			Code:    string(ge.Kind),
			Details: ge.Details,
		})
		return
	}
	e.LogServerError(w, r, logMsg, err)
}
