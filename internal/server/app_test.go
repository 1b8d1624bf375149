package server

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/memory"
	_ "modernc.org/sqlite"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &App{logger: logging.Nop{}, db: db, repos: memory.NewRepositoryManager()}
}

func TestCreateSuperuser(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	u, err := app.CreateSuperuser(ctx, " boss ", "boss@yamdb.test")
	require.NoError(t, err)
	assert.Equal(t, "boss", u.Username)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, u.IsSuperuser)

	stored, err := app.repos.Users(app.db).GetByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin())

	_, err = app.CreateSuperuser(ctx, "boss", "other@yamdb.test")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreateSuperuser_Rejects(t *testing.T) {
	app := newTestApp(t)

	_, err := app.CreateSuperuser(context.Background(), "", "x@yamdb.test")
	require.Error(t, err)

	_, err = app.CreateSuperuser(context.Background(), common.ReservedUsername, "x@yamdb.test")
	require.Error(t, err)
}
