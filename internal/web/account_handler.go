// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// AccountHandler serves the user management surface.
type AccountHandler struct {
	svc     *auth.Service
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(svc *auth.Service, logger *slog.Logger, metrics *observability.Metrics) *AccountHandler {
	return &AccountHandler{svc: svc, logger: logger, metrics: metrics}
}

// accountResponse is the outward view of an account. The password hash
// never appears here.
type accountResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func accountToResponse(account *auth.Account) accountResponse {
	return accountResponse{
		ID:        account.ID.String(),
		Username:  account.Username,
		Role:      account.Role.String(),
		CreatedAt: account.CreatedAt,
		LastLogin: account.LastLogin,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"confirm"`
}

type confirmPasswordRequest struct {
	Password string `json:"password"`
}

// List returns every account. Admin only.
// GET /api/users
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context(), AccountFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, accountToResponse(account))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new account. Admin only: the dashboard has no
// self-service signup.
// POST /api/users
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := auth.Require(AccountFromContext(r.Context()), auth.RoleAdmin); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Confirm, req.Role)
	if err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountToResponse(account))
}

// ChangePassword replaces an account's password. Self-change requires the
// old password; an admin changing someone else's skips it.
// PUT /api/users/{id}/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	acting := AccountFromContext(r.Context())
	if err := auth.RequireAuthenticated(acting); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	targetID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.svc.ChangePassword(r.Context(), acting.ID, targetID, req.OldPassword, req.NewPassword, req.Confirm); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an account. Admin only, and the acting admin re-enters
// its own password as the confirm-delete proof.
// DELETE /api/users/{id}
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acting := AccountFromContext(r.Context())
	if err := auth.RequireAuthenticated(acting); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	targetID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req confirmPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), acting.ID, req.Password, targetID); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam reads the {id} route parameter as a ULID, rendering a 400
// on malformed input.
func parseIDParam(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed id"})
		return ulid.ULID{}, false
	}
	return id, true
}
