// Package reviews persists title reviews.
package reviews

import (
	"context"

	"github.com/yamdb/yamdb/internal/server/models"
)

// Repository scopes every lookup to a title: a review id that exists under
// another title is reported as common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, titleID int64, limit, offset int) ([]*models.Review, int, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	// Exists reports whether author has already reviewed the title.
	Exists(ctx context.Context, titleID, authorID int64) (bool, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, titleID, id int64) error
}
