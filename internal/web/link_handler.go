// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quarterdeck/quarterdeck/internal/links"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// LinkHandler serves the link shortcut surface.
type LinkHandler struct {
	svc     *links.Service
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(svc *links.Service, logger *slog.Logger, metrics *observability.Metrics) *LinkHandler {
	return &LinkHandler{svc: svc, logger: logger, metrics: metrics}
}

type linkRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type linkResponse struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

func linkToResponse(link *links.Link) linkResponse {
	return linkResponse{
		ID:   link.ID.String(),
		URL:  link.URL,
		Name: link.Name,
	}
}

// List returns all links. Any authenticated identity may read.
// GET /api/links
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), AccountFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	resp := make([]linkResponse, 0, len(items))
	for _, link := range items {
		resp = append(resp, linkToResponse(link))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a link. Admin only.
// POST /api/links
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	link, err := h.svc.Add(r.Context(), AccountFromContext(r.Context()), req.URL, req.Name)
	if err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	writeJSON(w, http.StatusCreated, linkToResponse(link))
}

// Update edits a link. Admin only.
// PUT /api/links/{id}
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.svc.Edit(r.Context(), AccountFromContext(r.Context()), id, req.URL, req.Name); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a link. Admin only, with the acting account's own
// password re-entered as the confirm-delete proof.
// DELETE /api/links/{id}
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req confirmPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.svc.Delete(r.Context(), AccountFromContext(r.Context()), req.Password, id); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
