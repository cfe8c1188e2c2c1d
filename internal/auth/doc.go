// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package auth provides the credential and session core for Quarterdeck.
//
// # Domain Types
//
// Account is the stored identity: username, bcrypt password hash, and a
// closed two-value Role. Accounts should be created through NewAccount,
// which validates its inputs; direct struct initialization bypasses
// validation and may create invalid state.
//
// # Components
//
//   - PasswordPolicy (ValidateUsername, ValidatePassword, ConfirmMatch) -
//     exhaustive rule checks that report every violated rule at once
//   - PasswordHasher / BcryptHasher - salted one-way hashing at a fixed
//     work factor
//   - SessionManager - stateless signed session tokens carrying only the
//     account ID; no server-side session table exists
//   - Require / RequireAuthenticated - the single authorization gate every
//     protected operation passes through
//   - Service - account lifecycle orchestration (register, login, password
//     change, deletion)
//
// Repository interfaces are consumed, never implemented, by this package;
// the postgres subpackage provides the production implementation.
package auth
