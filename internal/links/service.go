// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package links

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/quarterdeck/quarterdeck/internal/auth"
)

// Service orchestrates link management. Mutations are admin-gated, and
// deletion additionally requires the acting account to re-enter its own
// current password, the same confirm-delete pattern account deletion uses.
type Service struct {
	links    Repository
	accounts auth.AccountRepository
	hasher   auth.PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(links Repository, accounts auth.AccountRepository, hasher auth.PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(links, accounts, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(links Repository, accounts auth.AccountRepository, hasher auth.PasswordHasher, logger *slog.Logger) (*Service, error) {
	if links == nil {
		return nil, oops.Errorf("link repository is required")
	}
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		links:    links,
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// List returns all links. Reading requires any authenticated identity.
func (s *Service) List(ctx context.Context, acting *auth.Account) ([]*Link, error) {
	if err := auth.RequireAuthenticated(acting); err != nil {
		return nil, err
	}
	items, err := s.links.List(ctx)
	if err != nil {
		return nil, oops.Code("LINK_LIST_FAILED").
			With("operation", "list links").
			Wrap(err)
	}
	return items, nil
}

// Add validates and creates a new link. Admin only.
func (s *Service) Add(ctx context.Context, acting *auth.Account, url, name string) (*Link, error) {
	if err := auth.Require(acting, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if violations := Validate(url, name); len(violations) > 0 {
		return nil, &auth.ValidationError{Violations: violations}
	}

	link := &Link{
		ID:   ulid.Make(),
		URL:  url,
		Name: name,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, oops.Code("LINK_CREATE_FAILED").
			With("operation", "create link").
			Wrap(err)
	}

	s.logger.Info("link added",
		slog.String("link_id", link.ID.String()),
		slog.String("acting_id", acting.ID.String()),
	)
	return link, nil
}

// Edit validates and updates an existing link. Admin only.
func (s *Service) Edit(ctx context.Context, acting *auth.Account, id ulid.ULID, url, name string) error {
	if err := auth.Require(acting, auth.RoleAdmin); err != nil {
		return err
	}
	if violations := Validate(url, name); len(violations) > 0 {
		return &auth.ValidationError{Violations: violations}
	}

	if err := s.links.Update(ctx, &Link{ID: id, URL: url, Name: name}); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code("LINK_NOT_FOUND").
				With("link_id", id.String()).
				Wrap(err)
		}
		return oops.Code("LINK_UPDATE_FAILED").
			With("operation", "update link").
			Wrap(err)
	}

	s.logger.Info("link edited",
		slog.String("link_id", id.String()),
		slog.String("acting_id", acting.ID.String()),
	)
	return nil
}

// Delete removes a link. Admin only, and the acting account must prove it
// still knows its own password before the record goes away.
func (s *Service) Delete(ctx context.Context, acting *auth.Account, actingPassword string, id ulid.ULID) error {
	if err := auth.Require(acting, auth.RoleAdmin); err != nil {
		return err
	}

	// Re-read the acting account so the password check runs against the
	// currently stored hash, not a stale in-memory copy.
	stored, err := s.accounts.GetByID(ctx, acting.ID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code("AUTH_WRONG_ACTOR").Errorf("acting account could not be resolved")
		}
		return oops.Code("LINK_DELETE_FAILED").
			With("operation", "get acting account").
			Wrap(err)
	}
	if !s.hasher.Verify(actingPassword, stored.PasswordHash) {
		return oops.Code("AUTH_INCORRECT_PASSWORD").Errorf("password is incorrect")
	}

	if err := s.links.Delete(ctx, id); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return oops.Code("LINK_NOT_FOUND").
				With("link_id", id.String()).
				Wrap(err)
		}
		return oops.Code("LINK_DELETE_FAILED").
			With("operation", "delete link").
			Wrap(err)
	}

	s.logger.Info("link deleted",
		slog.String("link_id", id.String()),
		slog.String("acting_id", acting.ID.String()),
	)
	return nil
}
