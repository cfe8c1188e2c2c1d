// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/observability"
	"github.com/quarterdeck/quarterdeck/pkg/errutil"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error      string               `json:"error"`
	Violations []auth.RuleViolation `json:"violations,omitempty"`
}

// statusByCode maps service error codes to HTTP statuses. Codes not
// listed here are internal faults and render a generic 500.
var statusByCode = map[string]int{
	"AUTH_UNAUTHENTICATED":        http.StatusUnauthorized,
	"AUTH_INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"AUTH_WRONG_ACTOR":            http.StatusUnauthorized,
	"AUTH_FORBIDDEN":              http.StatusForbidden,
	"AUTH_INCORRECT_PASSWORD":     http.StatusForbidden,
	"AUTH_INCORRECT_OLD_PASSWORD": http.StatusForbidden,
	"ACCOUNT_NOT_FOUND":           http.StatusNotFound,
	"LINK_NOT_FOUND":              http.StatusNotFound,
	"ACCOUNT_DUPLICATE_USERNAME":  http.StatusConflict,
}

// messageByCode holds the client-facing message per code. Responses never
// carry wrapped error chains; what the client learns is fixed here.
var messageByCode = map[string]string{
	"AUTH_UNAUTHENTICATED":        "authentication required",
	"AUTH_INVALID_CREDENTIALS":    "invalid username or password",
	"AUTH_WRONG_ACTOR":            "authentication required",
	"AUTH_FORBIDDEN":              "forbidden",
	"AUTH_INCORRECT_PASSWORD":     "password is incorrect",
	"AUTH_INCORRECT_OLD_PASSWORD": "old password is incorrect",
	"ACCOUNT_NOT_FOUND":           "account not found",
	"LINK_NOT_FOUND":              "link not found",
	"ACCOUNT_DUPLICATE_USERNAME":  "username is already taken",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write failure means the client is gone
	json.NewEncoder(w).Encode(v)
}

// writeError renders a service error. Validation failures carry the full
// violation list; auth failures are generic by design; anything unmapped
// is logged and rendered as an opaque 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, metrics *observability.Metrics, err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      "validation failed",
			Violations: validationErr.Violations,
		})
		return
	}

	code := ""
	if oopsErr, ok := oops.AsOops(err); ok {
		code, _ = oopsErr.Code().(string)
	}

	switch code {
	case "AUTH_UNAUTHENTICATED":
		metrics.RecordGateDenial("unauthenticated")
	case "AUTH_FORBIDDEN":
		metrics.RecordGateDenial("forbidden")
	}

	if status, ok := statusByCode[code]; ok {
		writeJSON(w, status, errorResponse{Error: messageByCode[code]})
		return
	}

	errutil.LogError(logger, "request failed", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
