// Package comments persists review comments.
package comments

import (
	"context"

	"github.com/yamdb/yamdb/internal/server/models"
)

// Repository scopes every lookup to a review.
type Repository interface {
	List(ctx context.Context, reviewID int64, limit, offset int) ([]*models.Comment, int, error)
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, reviewID, id int64) error
}
