// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package authtest provides test doubles for the auth core.
package authtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quarterdeck/quarterdeck/internal/auth"
)

// MemoryAccountRepository is an in-memory auth.AccountRepository.
// Error fields, when set, are returned by the corresponding method to
// simulate repository failures.
type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[ulid.ULID]*auth.Account

	CreateErr          error
	GetErr             error
	ListErr            error
	UpdatePasswordErr  error
	UpdateLastLoginErr error
	DeleteErr          error
}

// NewMemoryAccountRepository creates an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[ulid.ULID]*auth.Account)}
}

// Seed stores an account directly, bypassing uniqueness checks.
func (r *MemoryAccountRepository) Seed(account *auth.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.ID] = &cp
}

// Create stores a new account, enforcing username uniqueness.
func (r *MemoryAccountRepository) Create(_ context.Context, account *auth.Account) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return auth.ErrDuplicate
		}
	}
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

// GetByID retrieves an account by ID.
func (r *MemoryAccountRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.Account, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

// GetByUsername retrieves an account by username (case-sensitive).
func (r *MemoryAccountRepository) GetByUsername(_ context.Context, username string) (*auth.Account, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Username == username {
			cp := *account
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

// List retrieves all stored accounts ordered by creation time.
func (r *MemoryAccountRepository) List(_ context.Context) ([]*auth.Account, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make([]*auth.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		cp := *account
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID.Compare(accounts[j].ID) < 0
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// UpdatePassword replaces the stored password hash.
func (r *MemoryAccountRepository) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	if r.UpdatePasswordErr != nil {
		return r.UpdatePasswordErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return auth.ErrNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

// UpdateLastLogin records a successful login timestamp.
func (r *MemoryAccountRepository) UpdateLastLogin(_ context.Context, id ulid.ULID, at time.Time) error {
	if r.UpdateLastLoginErr != nil {
		return r.UpdateLastLoginErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return auth.ErrNotFound
	}
	account.LastLogin = &at
	return nil
}

// Delete removes an account.
func (r *MemoryAccountRepository) Delete(_ context.Context, id ulid.ULID) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return auth.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

// FastHasher is an auth.PasswordHasher without bcrypt's cost, for tests
// that exercise orchestration rather than hashing.
type FastHasher struct{}

// Hash prefixes the password so round trips are observable in tests.
func (FastHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return "hashed:" + password, nil
}

// Verify reverses FastHasher.Hash.
func (FastHasher) Verify(password, digest string) bool {
	return digest == "hashed:"+password
}
