package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, last_login, date_joined`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.Role, &u.IsSuperuser, &lastLogin, &u.DateJoined); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func wrapWriteErr(err error) error {
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query :=
		`INSERT INTO users (username, email, first_name, last_name, bio, role, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, date_joined`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		return nil, wrapWriteErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `username = $1`, username)
}

func (r *PostgresRepository) GetByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	return r.getOne(ctx, `username = $1 AND email = $2`, username, email)
}

func (r *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error) {
	const where = `($1 = '' OR strpos(lower(username), lower($1)) > 0)`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+where, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users
		 SET username = $2, email = $3, first_name = $4, last_name = $5, bio = $6, role = $7
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role)
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	if err := dbx.AffectedOne(res); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}
