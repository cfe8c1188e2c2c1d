// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"log/slog"
	"net/http"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/docker"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// ContainerHandler serves the container status panel.
type ContainerHandler struct {
	reader  *docker.StatusReader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewContainerHandler creates a ContainerHandler.
func NewContainerHandler(reader *docker.StatusReader, logger *slog.Logger, metrics *observability.Metrics) *ContainerHandler {
	return &ContainerHandler{reader: reader, logger: logger, metrics: metrics}
}

type containersResponse struct {
	Containers []string `json:"containers"`
}

// List returns one "name: status" line per container. Admin only. A
// failing docker CLI renders an empty list, not an error.
// GET /api/containers
func (h *ContainerHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := auth.Require(AccountFromContext(r.Context()), auth.RoleAdmin); err != nil {
		writeError(w, h.logger, h.metrics, err)
		return
	}

	containers := h.reader.Containers(r.Context())
	if containers == nil {
		containers = []string{}
	}
	writeJSON(w, http.StatusOK, containersResponse{Containers: containers})
}
