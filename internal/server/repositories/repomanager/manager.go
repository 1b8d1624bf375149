package repomanager

import (
	"context"
	"database/sql"

	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/repositories/comments"
	"github.com/yamdb/yamdb/internal/server/repositories/reviews"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
	"github.com/yamdb/yamdb/internal/server/repositories/titles"
	"github.com/yamdb/yamdb/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) taxonomy.Repository
	Genres(db dbx.DBTX) taxonomy.Repository
	Titles(db dbx.DBTX) titles.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Comments(db dbx.DBTX) comments.Repository
}
