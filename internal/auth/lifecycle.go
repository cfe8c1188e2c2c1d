// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// dummyPasswordHash is verified against when a username does not exist, so
// the response time of a failed login does not reveal whether the username
// was the part that failed. It is a syntactically valid bcrypt digest that
// matches no issued credential.
//
//nolint:gosec // G101: intentionally fake digest for timing defense, not a credential.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Service orchestrates the account lifecycle: registration, login,
// password changes, and deletion. It composes the password policy, the
// hasher, the session manager, and the account repository; side effects
// are confined to repository writes and token issuance.
type Service struct {
	accounts AccountRepository
	sessions *SessionManager
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(accounts AccountRepository, sessions *SessionManager, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(accounts, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, sessions *SessionManager, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session manager is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// Register validates and creates a new account. Every policy violation is
// collected before anything touches storage, so the caller can render the
// complete checklist in one round trip.
func (s *Service) Register(ctx context.Context, username, password, confirm, role string) (*Account, error) {
	var violations []RuleViolation
	violations = append(violations, ValidateUsername(username)...)
	violations = append(violations, ValidatePassword(password)...)
	violations = append(violations, ConfirmMatch(password, confirm)...)

	parsedRole, roleErr := ParseRole(role)
	if roleErr != nil {
		violations = append(violations, RuleViolation{
			Rule:    RuleRole,
			Message: "Role must be admin or user",
		})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(username, hash, parsedRole)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, oops.Code("ACCOUNT_DUPLICATE_USERNAME").
				With("username", username).
				Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	s.logger.Info("account registered",
		slog.String("account_id", account.ID.String()),
		slog.String("role", account.Role.String()),
	)
	return account, nil
}

// Login authenticates credentials and issues a session token. The failure
// is deliberately undifferentiated: a missing username and a wrong
// password produce the same error, and the dummy-hash verification keeps
// the two paths close in response time.
func (s *Service) Login(ctx context.Context, username, password string) (Identity, string, error) {
	account, lookupErr := s.accounts.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	accountExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return Identity{}, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid := s.hasher.Verify(password, targetHash)
	if !accountExists || !valid {
		return Identity{}, "", oops.Code("AUTH_INVALID_CREDENTIALS").
			Errorf("invalid username or password")
	}

	// Best effort: a failed timestamp write must not fail the login.
	now := time.Now()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("failed to record last login",
			slog.String("account_id", account.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.sessions.Issue(account.ID)
	if err != nil {
		return Identity{}, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.Info("login succeeded", slog.String("account_id", account.ID.String()))
	return account.Identity(), token, nil
}

// ListAccounts returns every account ordered by creation time. Admin only.
func (s *Service) ListAccounts(ctx context.Context, acting *Account) ([]*Account, error) {
	if err := Require(acting, RoleAdmin); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").
			With("operation", "list accounts").
			Wrap(err)
	}
	return accounts, nil
}

// Logout returns the replacement token that clears the holder's session.
func (s *Service) Logout(token string) string {
	return s.sessions.Destroy(token)
}

// Authenticate resolves a session token to its account. Tokens that do not
// verify, and tokens bound to accounts that no longer exist, both resolve
// to no identity.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	accountID, ok := s.sessions.Resolve(token)
	if !ok {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("authentication required")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("authentication required")
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}
	return account, nil
}

// ChangePassword replaces an account's password. An account changing its
// own password must prove it by re-entering the old one; an admin changing
// another account's password skips that check, the admin role substituting
// for it. Concurrent changes to the same account race at the repository:
// last writer wins.
func (s *Service) ChangePassword(ctx context.Context, actingID, targetID ulid.ULID, oldPassword, newPassword, confirm string) error {
	acting, err := s.accounts.GetByID(ctx, actingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_WRONG_ACTOR").Errorf("acting account could not be resolved")
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "get acting account").
			Wrap(err)
	}

	if actingID == targetID {
		if !s.hasher.Verify(oldPassword, acting.PasswordHash) {
			return oops.Code("AUTH_INCORRECT_OLD_PASSWORD").Errorf("old password is incorrect")
		}
	} else if gateErr := Require(acting, RoleAdmin); gateErr != nil {
		return gateErr
	}

	var violations []RuleViolation
	violations = append(violations, ValidatePassword(newPassword)...)
	violations = append(violations, ConfirmMatch(newPassword, confirm)...)
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.accounts.UpdatePassword(ctx, targetID, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("ACCOUNT_NOT_FOUND").
				With("account_id", targetID.String()).
				Wrap(err)
		}
		return oops.Code("ACCOUNT_UPDATE_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	s.logger.Info("password changed",
		slog.String("acting_id", actingID.String()),
		slog.String("target_id", targetID.String()),
	)
	return nil
}

// DeleteAccount removes an account. Deletion is destructive, so beyond the
// admin role check the acting account must re-enter its OWN current
// password - not the target's - as a fresh proof of possession,
// independent of which account is being deleted.
func (s *Service) DeleteAccount(ctx context.Context, actingID ulid.ULID, actingPassword string, targetID ulid.ULID) error {
	acting, err := s.accounts.GetByID(ctx, actingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_WRONG_ACTOR").Errorf("acting account could not be resolved")
		}
		return oops.Code("ACCOUNT_DELETE_FAILED").
			With("operation", "get acting account").
			Wrap(err)
	}

	if gateErr := Require(acting, RoleAdmin); gateErr != nil {
		return gateErr
	}

	if !s.hasher.Verify(actingPassword, acting.PasswordHash) {
		return oops.Code("AUTH_INCORRECT_PASSWORD").Errorf("password is incorrect")
	}

	if err := s.accounts.Delete(ctx, targetID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("ACCOUNT_NOT_FOUND").
				With("account_id", targetID.String()).
				Wrap(err)
		}
		return oops.Code("ACCOUNT_DELETE_FAILED").
			With("operation", "delete account").
			Wrap(err)
	}

	s.logger.Info("account deleted",
		slog.String("acting_id", actingID.String()),
		slog.String("target_id", targetID.String()),
	)
	return nil
}
