// Package http exposes the ledger as a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"caja/internal/core"
	"caja/internal/ledger"
)

// errorResponse is the body every failed request gets: a stable machine-readable
// name plus a human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorName maps domain errors to the stable names clients branch on.
func errorName(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidKind):
		return "invalid_kind"
	case errors.Is(err, core.ErrInvalidDescription):
		return "invalid_description"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, core.ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, core.ErrImportBatchInvalid):
		return "import_batch_invalid"
	case errors.Is(err, ledger.ErrEntryNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}

// statusFor picks the HTTP status for a domain error.
func statusFor(err error) int {
	switch errorName(err) {
	case "not_found":
		return http.StatusNotFound
	case "internal_error":
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorResponse{Error: errorName(err)}
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		body.Message = "internal error"
	} else {
		body.Message = err.Error()
	}
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: msg})
}
