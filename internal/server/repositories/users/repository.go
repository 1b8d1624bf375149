// Package users declares and implements the identity store: persistence for
// user accounts.
package users

import (
	"context"
	"time"

	"github.com/yamdb/yamdb/internal/server/models"
)

// Repository is the identity store contract. Lookups that find nothing
// return common.ErrorNotFound; writes that hit a uniqueness constraint
// return an error matching common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
	// List returns one page of users whose username contains search
	// (case-insensitive), ordered by id, plus the total match count.
	List(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	// TouchLastLogin records a login event, changing the user's fingerprint.
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
