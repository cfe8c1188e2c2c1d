// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	"github.com/quarterdeck/quarterdeck/internal/links"
	"github.com/quarterdeck/quarterdeck/internal/links/postgres"
	"github.com/quarterdeck/quarterdeck/pkg/errutil"
)

var linkColumns = []string{"id", "url", "name"}

func TestLinkRepository_List(t *testing.T) {
	t.Run("returns links in id order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		first := ulid.Make()
		second := ulid.Make()
		rows := pgxmock.NewRows(linkColumns).
			AddRow(first.String(), "grafana.example.com", "Grafana").
			AddRow(second.String(), "wiki.example.com", "Wiki")
		mock.ExpectQuery(`SELECT id, url, name FROM links`).
			WillReturnRows(rows)

		repo := postgres.NewLinkRepository(mock)
		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first, got[0].ID)
		assert.Equal(t, "Grafana", got[0].Name)
		assert.Equal(t, "wiki.example.com", got[1].URL)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("empty table", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, url, name FROM links`).
			WillReturnRows(pgxmock.NewRows(linkColumns))

		repo := postgres.NewLinkRepository(mock)
		got, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, url, name FROM links`).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewLinkRepository(mock)
		_, err = repo.List(context.Background())
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "LINK_LIST_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLinkRepository_GetByID(t *testing.T) {
	id := ulid.Make()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows(linkColumns).
			AddRow(id.String(), "grafana.example.com", "Grafana")
		mock.ExpectQuery(`SELECT id, url, name FROM links`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		repo := postgres.NewLinkRepository(mock)
		link, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, link.ID)
		assert.Equal(t, "Grafana", link.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, url, name FROM links`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(linkColumns))

		repo := postgres.NewLinkRepository(mock)
		_, err = repo.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "LINK_NOT_FOUND")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLinkRepository_Create(t *testing.T) {
	link := &links.Link{ID: ulid.Make(), URL: "grafana.example.com", Name: "Grafana"}

	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO links`).
			WithArgs(link.ID.String(), link.URL, link.Name).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewLinkRepository(mock)
		require.NoError(t, repo.Create(context.Background(), link))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO links`).
			WithArgs(link.ID.String(), link.URL, link.Name).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewLinkRepository(mock)
		err = repo.Create(context.Background(), link)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "LINK_CREATE_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLinkRepository_Update(t *testing.T) {
	link := &links.Link{ID: ulid.Make(), URL: "grafana.internal", Name: "Grafana Prod"}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful update",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE links SET url`).
					WithArgs(link.ID.String(), link.URL, link.Name).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "link missing",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE links SET url`).
					WithArgs(link.ID.String(), link.URL, link.Name).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := postgres.NewLinkRepository(mock)
			err = repo.Update(context.Background(), link)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestLinkRepository_Delete(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantCode  string
	}{
		{
			name: "successful delete",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM links`).
					WithArgs(id.String()).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "link missing",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM links`).
					WithArgs(id.String()).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr:  auth.ErrNotFound,
			wantCode: "LINK_NOT_FOUND",
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM links`).
					WithArgs(id.String()).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "LINK_DELETE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := postgres.NewLinkRepository(mock)
			err = repo.Delete(context.Background(), id)

			if tt.wantCode != "" {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
