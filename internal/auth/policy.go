// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Username and password policy constraints.
const (
	MinUsernameLength = 6
	MaxUsernameLength = 16
	MinPasswordLength = 8
	MaxPasswordLength = 32
)

// passwordSymbols is the set of characters accepted as "special".
// Kept exactly as the dashboard has always advertised it.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// Rule names for policy violations. Stable identifiers the UI keys
// field-level messages on.
const (
	RuleMinLength  = "min_length"
	RuleMaxLength  = "max_length"
	RuleUppercase  = "uppercase"
	RuleDigit      = "digit"
	RuleSymbol     = "symbol"
	RuleWhitespace = "whitespace"
	RuleMismatch   = "mismatch"
	RuleRole       = "role"
)

// RuleViolation is a single named reason a validated input failed policy.
type RuleViolation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError aggregates every rule violation found in a request.
// It is recoverable and rendered field-by-field to the caller; it is
// never treated as a security event.
type ValidationError struct {
	Violations []RuleViolation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidateUsername checks a username against policy and returns every
// violated rule. Rules are evaluated independently so the caller can
// render a complete checklist; a nil result means the username is valid.
//
// Rules: 6-16 characters, at least one uppercase letter, no whitespace.
func ValidateUsername(username string) []RuleViolation {
	var violations []RuleViolation

	length := utf8.RuneCountInString(username)
	if length < MinUsernameLength {
		violations = append(violations, RuleViolation{
			Rule:    RuleMinLength,
			Message: fmt.Sprintf("Must be at least %d characters long", MinUsernameLength),
		})
	}
	if length > MaxUsernameLength {
		violations = append(violations, RuleViolation{
			Rule:    RuleMaxLength,
			Message: fmt.Sprintf("Must be at most %d characters long", MaxUsernameLength),
		})
	}
	if !containsUpper(username) {
		violations = append(violations, RuleViolation{
			Rule:    RuleUppercase,
			Message: "Must include at least one uppercase letter",
		})
	}
	if containsSpace(username) {
		violations = append(violations, RuleViolation{
			Rule:    RuleWhitespace,
			Message: "Username cannot contain spaces",
		})
	}

	return violations
}

// ValidatePassword checks a password against policy and returns every
// violated rule. A nil result means the password is valid.
//
// Rules: 8-32 characters, at least one uppercase letter, at least one
// digit, at least one special character, no whitespace.
func ValidatePassword(password string) []RuleViolation {
	var violations []RuleViolation

	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		violations = append(violations, RuleViolation{
			Rule:    RuleMinLength,
			Message: fmt.Sprintf("Must be at least %d characters long", MinPasswordLength),
		})
	}
	if length > MaxPasswordLength {
		violations = append(violations, RuleViolation{
			Rule:    RuleMaxLength,
			Message: fmt.Sprintf("Must be at most %d characters long", MaxPasswordLength),
		})
	}
	if !containsUpper(password) {
		violations = append(violations, RuleViolation{
			Rule:    RuleUppercase,
			Message: "Must include at least one uppercase letter",
		})
	}
	if containsSpace(password) {
		violations = append(violations, RuleViolation{
			Rule:    RuleWhitespace,
			Message: "Password cannot contain spaces",
		})
	}
	if !strings.ContainsAny(password, "0123456789") {
		violations = append(violations, RuleViolation{
			Rule:    RuleDigit,
			Message: "Must include at least one number",
		})
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		violations = append(violations, RuleViolation{
			Rule:    RuleSymbol,
			Message: "Password must contain at least one special character",
		})
	}

	return violations
}

// ConfirmMatch checks that a password and its confirmation agree.
// Returns the single mismatch violation, or nil when they match.
func ConfirmMatch(password, confirm string) []RuleViolation {
	if password != confirm {
		return []RuleViolation{{
			Rule:    RuleMismatch,
			Message: "Passwords do not match",
		}}
	}
	return nil
}

func containsUpper(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func containsSpace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}
