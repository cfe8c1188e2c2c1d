// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth

import "github.com/samber/oops"

// The authorization gate. Every protected operation funnels through these
// two checks instead of comparing role strings at the call site, so a
// forgotten check cannot hide in a handler.
//
// Unauthenticated and Forbidden are distinct failures: the former means no
// resolvable identity at all, the latter a resolved identity lacking the
// required role.

// RequireAuthenticated fails unless an identity was resolved.
func RequireAuthenticated(account *Account) error {
	if account == nil {
		return oops.Code("AUTH_UNAUTHENTICATED").Errorf("authentication required")
	}
	return nil
}

// Require fails unless an identity was resolved and holds exactly the
// required role.
func Require(account *Account, role Role) error {
	if err := RequireAuthenticated(account); err != nil {
		return err
	}
	if account.Role != role {
		return oops.Code("AUTH_FORBIDDEN").
			With("required_role", role.String()).
			Errorf("operation requires the %s role", role)
	}
	return nil
}
