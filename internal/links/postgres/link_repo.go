// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package postgres provides the PostgreSQL-backed link repository.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/links"
)

// DB is the subset of pgxpool.Pool the repository uses. Keeping it an
// interface lets tests substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LinkRepository implements links.Repository using PostgreSQL.
type LinkRepository struct {
	db DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// List retrieves all links ordered by ID, which for ULIDs is creation order.
func (r *LinkRepository) List(ctx context.Context) ([]*links.Link, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, url, name FROM links ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("LINK_LIST_FAILED").
			With("operation", "list links").
			Wrap(err)
	}
	defer rows.Close()

	var result []*links.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, oops.Code("LINK_LIST_FAILED").
				With("operation", "scan link row").
				Wrap(err)
		}
		result = append(result, link)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("LINK_LIST_FAILED").
			With("operation", "iterate links").
			Wrap(err)
	}
	return result, nil
}

// GetByID retrieves a link by ID.
func (r *LinkRepository) GetByID(ctx context.Context, id ulid.ULID) (*links.Link, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, url, name FROM links WHERE id = $1
	`, id.String())

	link, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("LINK_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("LINK_GET_BY_ID_FAILED").
			With("operation", "get link by id").
			With("id", id.String()).
			Wrap(err)
	}
	return link, nil
}

// Create stores a new link.
func (r *LinkRepository) Create(ctx context.Context, link *links.Link) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO links (id, url, name) VALUES ($1, $2, $3)
	`, link.ID.String(), link.URL, link.Name)
	if err != nil {
		return oops.Code("LINK_CREATE_FAILED").
			With("operation", "insert link").
			With("name", link.Name).
			Wrap(err)
	}
	return nil
}

// Update replaces a link's URL and name.
func (r *LinkRepository) Update(ctx context.Context, link *links.Link) error {
	result, err := r.db.Exec(ctx, `
		UPDATE links SET url = $2, name = $3 WHERE id = $1
	`, link.ID.String(), link.URL, link.Name)
	if err != nil {
		return oops.Code("LINK_UPDATE_FAILED").
			With("operation", "update link").
			With("id", link.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("LINK_NOT_FOUND").
			With("id", link.ID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Delete removes a link.
func (r *LinkRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM links WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("LINK_DELETE_FAILED").
			With("operation", "delete link").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("LINK_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanLink scans a single row into a Link.
// Callers are responsible for handling pgx.ErrNoRows.
func scanLink(row pgx.Row) (*links.Link, error) {
	var (
		idStr string
		url   string
		name  string
	)

	if err := row.Scan(&idStr, &url, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("LINK_SCAN_FAILED").
			With("operation", "scan link").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("LINK_INVALID_ID").
			With("operation", "parse link id").
			With("id", idStr).
			Wrap(err)
	}

	return &links.Link{ID: id, URL: url, Name: name}, nil
}

// Compile-time interface check.
var _ links.Repository = (*LinkRepository)(nil)
