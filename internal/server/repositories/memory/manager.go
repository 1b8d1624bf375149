// Package memory is a map-backed RepositoryManager. It keeps the same
// contracts as the PostgreSQL repositories (not-found, uniqueness, scoping,
// cascades) but ignores the DBTX it is given, so writes made inside a
// rolled-back transaction are not undone.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/comments"
	"github.com/yamdb/yamdb/internal/server/repositories/reviews"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
	"github.com/yamdb/yamdb/internal/server/repositories/titles"
	"github.com/yamdb/yamdb/internal/server/repositories/users"
)

type store struct {
	mu sync.Mutex

	seq        int64
	now        func() time.Time
	users      map[int64]*models.User
	categories map[string]*models.Classifier
	genres     map[string]*models.Classifier
	titles     map[int64]*titleRow
	reviews    map[int64]*models.Review
	comments   map[int64]*models.Comment
}

type titleRow struct {
	title    models.Title
	category string
	genres   []int64
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

type RepositoryManager struct {
	s *store
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{s: &store{
		now:        time.Now,
		users:      map[int64]*models.User{},
		categories: map[string]*models.Classifier{},
		genres:     map[string]*models.Classifier{},
		titles:     map[int64]*titleRow{},
		reviews:    map[int64]*models.Review{},
		comments:   map[int64]*models.Comment{},
	}}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return &userRepo{m.s} }

func (m *RepositoryManager) Categories(dbx.DBTX) taxonomy.Repository {
	return &classifierRepo{s: m.s, table: taxonomy.Categories, rows: m.s.categories}
}

func (m *RepositoryManager) Genres(dbx.DBTX) taxonomy.Repository {
	return &classifierRepo{s: m.s, table: taxonomy.Genres, rows: m.s.genres}
}

func (m *RepositoryManager) Titles(dbx.DBTX) titles.Repository     { return &titleRepo{m.s} }
func (m *RepositoryManager) Reviews(dbx.DBTX) reviews.Repository   { return &reviewRepo{m.s} }
func (m *RepositoryManager) Comments(dbx.DBTX) comments.Repository { return &commentRepo{m.s} }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
