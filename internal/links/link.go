// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package links manages the dashboard's link shortcuts. Links are not part
// of the auth domain, but every mutation passes through its authorization
// gate: only admins may add, edit, or delete them.
package links

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/quarterdeck/quarterdeck/internal/auth"
)

// Link name constraints.
const (
	MinNameLength = 3
	MaxNameLength = 24
)

// Rule names for link validation violations.
const (
	RuleNameMinLength = "name_min_length"
	RuleNameMaxLength = "name_max_length"
	RuleURLShape      = "url_shape"
)

// Link is a managed shortcut shown on the dashboard.
type Link struct {
	ID   ulid.ULID
	URL  string
	Name string
}

// Validate checks the link's name and URL and returns every violated rule.
//
// The URL check is a deliberately weak heuristic: the string must contain
// at least one dot. It is a syntactic sanity check, not a URL parser, and
// is kept that way so the dashboard's accepted inputs do not change.
func Validate(url, name string) []auth.RuleViolation {
	var violations []auth.RuleViolation

	length := utf8.RuneCountInString(name)
	if length < MinNameLength {
		violations = append(violations, auth.RuleViolation{
			Rule:    RuleNameMinLength,
			Message: fmt.Sprintf("Name must be at least %d characters long", MinNameLength),
		})
	}
	if length > MaxNameLength {
		violations = append(violations, auth.RuleViolation{
			Rule:    RuleNameMaxLength,
			Message: fmt.Sprintf("Name must be at most %d characters long", MaxNameLength),
		})
	}
	if !strings.Contains(url, ".") {
		violations = append(violations, auth.RuleViolation{
			Rule:    RuleURLShape,
			Message: "Link must be a valid URL",
		})
	}

	return violations
}

// Repository manages link persistence.
type Repository interface {
	// List retrieves all links.
	List(ctx context.Context) ([]*Link, error)

	// GetByID retrieves a link by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Link, error)

	// Create stores a new link.
	Create(ctx context.Context, link *Link) error

	// Update replaces a link's URL and name.
	Update(ctx context.Context, link *Link) error

	// Delete removes a link.
	Delete(ctx context.Context, id ulid.ULID) error
}
