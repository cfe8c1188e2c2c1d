// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionManager issues and resolves stateless signed session tokens.
//
// A token is an HMAC-SHA256 signed JWT whose only payload is the account
// ID in the subject claim. There is no server-side session table and no
// expiry claim: validity is determined entirely by the signature, and a
// token remains valid until the signing secret rotates. The holder moves
// between exactly two states: anonymous and authenticated.
type SessionManager struct {
	secret []byte
}

// NewSessionManager creates a SessionManager with the process-wide signing
// secret. The secret is read once at startup and never mutated; rotating
// it invalidates every outstanding session.
func NewSessionManager(secret string) (*SessionManager, error) {
	if secret == "" {
		return nil, oops.Code("SESSION_SECRET_EMPTY").Errorf("signing secret cannot be empty")
	}
	return &SessionManager{secret: []byte(secret)}, nil
}

// Issue produces a signed token bound to the account ID.
func (m *SessionManager) Issue(accountID ulid.ULID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: accountID.String(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", oops.Code("SESSION_ISSUE_FAILED").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return signed, nil
}

// Resolve verifies a token's signature and returns the account ID it is
// bound to. An absent, malformed, or foreign-signed token resolves to no
// identity; no datastore is consulted.
func (m *SessionManager) Resolve(token string) (ulid.ULID, bool) {
	if token == "" {
		return ulid.ULID{}, false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ulid.ULID{}, false
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

// Destroy produces the replacement token that clears the holder's session.
// Nothing is revoked server-side; the returned empty token simply carries
// no identity, returning the holder to the anonymous state.
func (m *SessionManager) Destroy(string) string {
	return ""
}
