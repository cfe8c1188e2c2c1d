// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the closed set of account roles. There is no hierarchy: admin is
// checked by equality, not as a superset of user.
type Role string

// Valid roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a raw string into a Role.
// Anything outside the closed set is rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", oops.Code("AUTH_INVALID_ROLE").
		With("role", s).
		Errorf("role must be %q or %q", RoleAdmin, RoleUser)
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// String returns the role as stored and transmitted.
func (r Role) String() string {
	return string(r)
}

// Account represents a stored identity.
type Account struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLogin    *time.Time // nil until first successful login
}

// NewAccount creates a validated Account with a fresh ID and creation
// timestamp. The password hash must already be computed; this constructor
// never sees a plaintext password.
func NewAccount(username, passwordHash string, role Role) (*Account, error) {
	if violations := ValidateUsername(username); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, oops.Code("AUTH_INVALID_ROLE").
			With("role", string(role)).
			Errorf("role must be %q or %q", RoleAdmin, RoleUser)
	}

	return &Account{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}, nil
}

// Identity is the minimal view of an authenticated account handed back to
// callers. The password hash never crosses this boundary.
type Identity struct {
	ID       ulid.ULID
	Username string
	Role     Role
}

// Identity returns the account's outward-facing identity.
func (a *Account) Identity() Identity {
	return Identity{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
	}
}

// AccountRepository manages account persistence. Username uniqueness is
// enforced here, not by the core; Create surfaces a conflict by wrapping
// ErrDuplicate.
type AccountRepository interface {
	// Create stores a new account.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByUsername retrieves an account by username (case-sensitive).
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// List retrieves all accounts ordered by creation time.
	List(ctx context.Context) ([]*Account, error)

	// UpdatePassword replaces only the password hash for an account.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// UpdateLastLogin records a successful login timestamp.
	UpdateLastLogin(ctx context.Context, id ulid.ULID, at time.Time) error

	// Delete removes an account.
	Delete(ctx context.Context, id ulid.ULID) error
}
