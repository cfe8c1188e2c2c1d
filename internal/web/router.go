// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/docker"
	"github.com/quarterdeck/quarterdeck/internal/links"
	"github.com/quarterdeck/quarterdeck/internal/observability"
)

// RouterDeps bundles what NewRouter needs.
type RouterDeps struct {
	Auth       *auth.Service
	Links      *links.Service
	Containers *docker.StatusReader

	CookieName   string
	SecureCookie bool

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewRouter builds the dashboard's route tree. The session middleware
// runs first so the request logger can attribute requests to accounts;
// authorization happens in the services, not here.
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := NewAuthHandler(deps.Auth, deps.CookieName, deps.SecureCookie, logger, deps.Metrics)
	accountHandler := NewAccountHandler(deps.Auth, logger, deps.Metrics)
	linkHandler := NewLinkHandler(deps.Links, logger, deps.Metrics)
	containerHandler := NewContainerHandler(deps.Containers, logger, deps.Metrics)

	r := chi.NewRouter()
	r.Use(sessionMiddleware(deps.Auth, deps.CookieName))
	r.Use(requestLogMiddleware(logger, deps.Metrics))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", accountHandler.List)
		r.Post("/", accountHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/password", accountHandler.ChangePassword)
			r.Delete("/", accountHandler.Delete)
		})
	})

	r.Route("/api/links", func(r chi.Router) {
		r.Get("/", linkHandler.List)
		r.Post("/", linkHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", linkHandler.Update)
			r.Delete("/", linkHandler.Delete)
		})
	})

	r.Get("/api/containers", containerHandler.List)

	return r
}
