// Package titles persists titles, their genre links and the derived rating.
package titles

import (
	"context"

	"github.com/yamdb/yamdb/internal/server/models"
)

type Repository interface {
	// List returns one page of titles matching f, ordered by id, with
	// category, genres and rating populated, plus the total match count.
	List(ctx context.Context, f models.TitleFilter, limit, offset int) ([]*models.Title, int, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	// Create inserts the scalar fields and category link of t.
	Create(ctx context.Context, t *models.Title) (*models.Title, error)
	Update(ctx context.Context, t *models.Title) error
	// SetGenres replaces the genre links of a title.
	SetGenres(ctx context.Context, titleID int64, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
