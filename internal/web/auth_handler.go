// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// AuthHandler serves login, logout, and identity introspection.
type AuthHandler struct {
	svc          *auth.Service
	cookieName   string
	secureCookie bool
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewAuthHandler creates an AuthHandler. secureCookie should be true in
// production so the session cookie is never sent over plain HTTP.
func NewAuthHandler(svc *auth.Service, cookieName string, secureCookie bool, logger *slog.Logger, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		cookieName:   cookieName,
		secureCookie: secureCookie,
		logger:       logger,
		metrics:      metrics,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func identityToResponse(identity auth.Identity) identityResponse {
	return identityResponse{
		ID:       identity.ID.String(),
		Username: identity.Username,
		Role:     identity.Role.String(),
	}
}

// Login authenticates credentials and sets the session cookie.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	identity, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.RecordLogin(observability.LoginOutcomeFailure)
		writeError(w, h.logger, h.metrics, err)
		return
	}

	h.metrics.RecordLogin(observability.LoginOutcomeSuccess)
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, identityToResponse(identity))
}

// Logout replaces the session cookie with an expired one. The token is
// stateless, so "destroying" it means the client stops carrying it.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		token = cookie.Value
	}

	replacement := h.svc.Logout(token)
	h.clearSessionCookie(w, replacement)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated identity.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if err := auth.RequireAuthenticated(account); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	writeJSON(w, http.StatusOK, identityToResponse(account.Identity()))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter, replacement string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    replacement,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
