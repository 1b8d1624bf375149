// Package taxonomy stores the slug-addressed classifiers titles are filed
// under: categories and genres. Both live in identically shaped tables.
package taxonomy

import (
	"context"

	"github.com/yamdb/yamdb/internal/server/models"
)

// Table selects which classifier table a repository works on.
type Table string

const (
	Categories Table = "categories"
	Genres     Table = "genres"
)

type Repository interface {
	// List returns one page of classifiers whose name contains search
	// (case-insensitive), ordered by name, plus the total match count.
	List(ctx context.Context, search string, limit, offset int) ([]*models.Classifier, int, error)
	Create(ctx context.Context, c *models.Classifier) (*models.Classifier, error)
	GetBySlug(ctx context.Context, slug string) (*models.Classifier, error)
	DeleteBySlug(ctx context.Context, slug string) error
}
