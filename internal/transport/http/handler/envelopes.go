package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/pkg/validate"
	"github.com/student-election-api/internal/transport/http/middleware"
)

// Envelope is the response wrapper for every JSON endpoint. Failures are
// reported through Success and Code, never as a bare error string.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Error codes surfaced to clients.
const (
	CodeOK           = "OK"
	CodeNotFound     = "NOT_FOUND"
	CodeBlocked      = "BLOCKED"
	CodeAlreadyVoted = "ALREADY_VOTED"
	CodeMismatch     = "MISMATCH"
	CodeAuth         = "AUTH_ERROR"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeStore        = "STORE_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, Envelope{Success: true, Code: CodeOK, Message: msg, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Code: code, Message: msg})
}

// writeServiceError maps a domain sentinel to its status and code. Anything
// unrecognised is a store failure; its detail is logged, not returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if code == CodeStore {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, code, "the operation could not be completed, please try again")
		return
	}
	writeError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrBlocked):
		return http.StatusForbidden, CodeBlocked
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusConflict, CodeAlreadyVoted
	case errors.Is(err, domain.ErrMismatch):
		return http.StatusUnauthorized, CodeMismatch
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, CodeAuth
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	default:
		return http.StatusInternalServerError, CodeStore
	}
}

// decode reads a JSON body into dst and validates it, writing the failure
// response itself. It reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, CodeValidation, err.Error())
		return false
	}
	return true
}

// operatorActor builds the audit actor from the authenticated operator.
func operatorActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeAuth, "unauthorized")
		return domain.Actor{}, false
	}
	return domain.Actor{Type: claims.Role, ID: claims.OperatorEmail}, true
}
