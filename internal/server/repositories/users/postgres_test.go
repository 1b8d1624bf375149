package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var userRowColumns = []string{"id", "username", "email", "first_name", "last_name", "bio", "role", "is_superuser", "last_login", "date_joined"}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(username, email, first_name, last_name, bio, role, is_superuser\)`).
		WithArgs("bob", "b@x.com", "", "", "", models.RoleUser, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date_joined"}).AddRow(int64(42), joined))

	got, err := repo.Create(context.Background(), &models.User{Username: "bob", Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, models.RoleUser, got.Role, "role defaults to user")
	assert.Equal(t, joined, got.DateJoined)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), &models.User{Username: "bob", Email: "other@x.com"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Username: "bob", Email: "b@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
	assert.False(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	login := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, username, email, .* FROM users WHERE username = \$1`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(7), "bob", "b@x.com", "Bob", "B", "bio", "moderator", false, login, login))

	got, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, models.RoleModerator, got.Role)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, login, *got.LastLogin)
}

func TestGetByUsernameAndEmail_NullLastLogin(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE username = \$1 AND email = \$2`).
		WithArgs("bob", "b@x.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(7), "bob", "b@x.com", "", "", "", "user", false, nil, time.Now()))

	got, err := repo.GetByUsernameAndEmail(context.Background(), "bob", "b@x.com")
	require.NoError(t, err)
	assert.Nil(t, got.LastLogin)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_CountsAndPages(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE`).
		WithArgs("bo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY id LIMIT \$2 OFFSET \$3`).
		WithArgs("bo", 2, 0).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(1), "bob", "b@x.com", "", "", "", "user", false, nil, now).
			AddRow(int64(2), "bobby", "bb@x.com", "", "", "", "admin", true, nil, now))

	got, total, err := repo.List(context.Background(), "bo", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 2)
	assert.True(t, got[1].IsSuperuser)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE users\s+SET username = \$2`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), &models.User{ID: 5, Username: "x", Email: "x@x.com", Role: models.RoleUser})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_Conflict(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE users`).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), &models.User{ID: 5})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 5))

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(int64(6)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), 6), common.ErrorNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users SET last_login = \$2 WHERE id = \$1`).
		WithArgs(int64(5), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TouchLastLogin(context.Background(), 5, at))
	require.NoError(t, mock.ExpectationsWereMet())
}
