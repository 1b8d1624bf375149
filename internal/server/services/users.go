package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/repomanager"
)

// UserService administers accounts and serves the caller's own profile.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

func (s *UserService) List(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error) {
	list, total, err := s.repomanager.Users(s.db).List(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return list, total, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := validateUser(u); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, uniqueConflict(ctx, repo, u)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Update applies patch to the user called username.
func (s *UserService) Update(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	u, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, u, patch)
}

// UpdateMe applies patch to the caller's own account. The role is kept at
// its current value whatever the patch says.
func (s *UserService) UpdateMe(ctx context.Context, me *models.User, patch models.UserPatch) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, me.ID)
	if err != nil {
		return nil, err
	}
	patch.Role = nil
	return s.save(ctx, u, patch)
}

func (s *UserService) save(ctx context.Context, u *models.User, patch models.UserPatch) (*models.User, error) {
	patch.Apply(u)
	if err := validateUser(u); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	updated, err := repo.Update(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, uniqueConflict(ctx, repo, u)
		}
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	u, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	return s.repomanager.Users(s.db).Delete(ctx, u.ID)
}
