// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterdeck/quarterdeck/internal/auth"
)

func violatedRules(violations []auth.RuleViolation) []string {
	rules := make([]string, len(violations))
	for i, v := range violations {
		rules[i] = v.Rule
	}
	return rules
}

func TestValidateUsername(t *testing.T) {
	t.Run("accepts valid usernames", func(t *testing.T) {
		for _, username := range []string{"TestUser", "Abcdef", "SixteenCharsLong", "ABC123xyz"} {
			assert.Empty(t, auth.ValidateUsername(username), "username %q", username)
		}
	})

	tests := []struct {
		name     string
		username string
		rules    []string
	}{
		{"too short", "Abc", []string{auth.RuleMinLength}},
		{"too long", "Abcdefghijklmnopq", []string{auth.RuleMaxLength}},
		{"missing uppercase", "alllower", []string{auth.RuleUppercase}},
		{"contains space", "Has space", []string{auth.RuleWhitespace}},
		{"contains tab", "Has\ttabs", []string{auth.RuleWhitespace}},
		{"collects every broken rule", "ab c", []string{auth.RuleMinLength, auth.RuleUppercase, auth.RuleWhitespace}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := auth.ValidateUsername(tt.username)
			assert.ElementsMatch(t, tt.rules, violatedRules(violations))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Run("accepts valid passwords", func(t *testing.T) {
		for _, password := range []string{"Secret1!", "Abcdef1$", `Quoted"Pass9`, "Symbols{8}Ok"} {
			assert.Empty(t, auth.ValidatePassword(password), "password %q", password)
		}
	})

	tests := []struct {
		name     string
		password string
		rules    []string
	}{
		{"too short", "Ab1!", []string{auth.RuleMinLength}},
		{"too long", "Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!x", []string{auth.RuleMaxLength}},
		{"missing uppercase", "secret1!", []string{auth.RuleUppercase}},
		{"missing digit", "Secrets!", []string{auth.RuleDigit}},
		{"missing symbol", "Secrets1", []string{auth.RuleSymbol}},
		{"contains space", "Secret 1!", []string{auth.RuleWhitespace}},
		{"collects every broken rule", "pass", []string{
			auth.RuleMinLength, auth.RuleUppercase, auth.RuleDigit, auth.RuleSymbol,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := auth.ValidatePassword(tt.password)
			assert.ElementsMatch(t, tt.rules, violatedRules(violations))
		})
	}

	t.Run("exactly one missing condition yields exactly one violation", func(t *testing.T) {
		violations := auth.ValidatePassword("NoSymbol9")
		require.Len(t, violations, 1)
		assert.Equal(t, auth.RuleSymbol, violations[0].Rule)
	})
}

func TestConfirmMatch(t *testing.T) {
	t.Run("matching passwords pass", func(t *testing.T) {
		assert.Empty(t, auth.ConfirmMatch("Secret1!", "Secret1!"))
	})

	t.Run("mismatch yields the single mismatch violation", func(t *testing.T) {
		violations := auth.ConfirmMatch("Secret1!", "Secret2!")
		require.Len(t, violations, 1)
		assert.Equal(t, auth.RuleMismatch, violations[0].Rule)
	})
}

func TestValidationError_Message(t *testing.T) {
	err := &auth.ValidationError{Violations: []auth.RuleViolation{
		{Rule: auth.RuleMinLength, Message: "Must be at least 8 characters long"},
		{Rule: auth.RuleDigit, Message: "Must include at least one number"},
	}}
	assert.Contains(t, err.Error(), "Must be at least 8 characters long")
	assert.Contains(t, err.Error(), "Must include at least one number")
}
