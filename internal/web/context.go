// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package web exposes the dashboard's JSON API. Handlers never enforce
// authorization themselves beyond calling the auth gate; the session
// middleware resolves the cookie to an account and the services decide
// what that account may do.
package web

import (
	"context"

	"github.com/quarterdeck/quarterdeck/internal/auth"
)

// contextKey is a private type so request context values cannot collide
// with other packages.
type contextKey string

const accountContextKey = contextKey("account")

// ContextWithAccount injects the authenticated account into the context.
func ContextWithAccount(ctx context.Context, account *auth.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext returns the authenticated account, or nil when the
// request carried no resolvable session.
func AccountFromContext(ctx context.Context) *auth.Account {
	account, _ := ctx.Value(accountContextKey).(*auth.Account)
	return account
}
