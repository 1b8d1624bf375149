package taxonomy

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

func newRepoWithMock(t *testing.T, table Table) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db, table), mock
}

func TestList_UsesBoundTable(t *testing.T) {
	repo, mock := newRepoWithMock(t, Genres)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM genres WHERE`).
		WithArgs("dra").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, name, slug FROM genres WHERE .* ORDER BY name, id LIMIT \$2 OFFSET \$3`).
		WithArgs("dra", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(int64(1), "Drama", "drama"))

	got, total, err := repo.List(context.Background(), "dra", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "drama", got[0].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t, Categories)

	mock.ExpectQuery(`INSERT INTO categories \(name, slug\) VALUES \(\$1, \$2\) RETURNING id`).
		WithArgs("Films", "films").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	got, err := repo.Create(context.Background(), &models.Classifier{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	repo, mock := newRepoWithMock(t, Categories)

	mock.ExpectQuery(`INSERT INTO categories`).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Classifier{Name: "Films", Slug: "films"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, Categories)

	mock.ExpectQuery(`SELECT id, name, slug FROM categories WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBySlug(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteBySlug(t *testing.T) {
	repo, mock := newRepoWithMock(t, Genres)

	mock.ExpectExec(`DELETE FROM genres WHERE slug = \$1`).WithArgs("rock").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteBySlug(context.Background(), "rock"))

	mock.ExpectExec(`DELETE FROM genres WHERE slug = \$1`).WithArgs("jazz").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.DeleteBySlug(context.Background(), "jazz"), common.ErrorNotFound)
}
