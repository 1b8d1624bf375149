// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/migrations"
	"github.com/yamdb/yamdb/internal/server/repositories/comments"
	"github.com/yamdb/yamdb/internal/server/repositories/reviews"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
	"github.com/yamdb/yamdb/internal/server/repositories/titles"
	"github.com/yamdb/yamdb/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) taxonomy.Repository {
	return taxonomy.NewPostgresRepository(db, taxonomy.Categories)
}

func (m *PostgresRepositoryManager) Genres(db dbx.DBTX) taxonomy.Repository {
	return taxonomy.NewPostgresRepository(db, taxonomy.Genres)
}

func (m *PostgresRepositoryManager) Titles(db dbx.DBTX) titles.Repository {
	return titles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reviews(db dbx.DBTX) reviews.Repository {
	return reviews.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
