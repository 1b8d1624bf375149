package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/models"
)

type PostgresRepository struct {
	db    dbx.DBTX
	table Table
}

// NewPostgresRepository binds a repository to one of the classifier tables.
// table must be one of the package constants; it is interpolated into SQL.
func NewPostgresRepository(db dbx.DBTX, table Table) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

func (r *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Classifier, int, error) {
	where := ` WHERE ($1 = '' OR strpos(lower(name), lower($1)) > 0)`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+string(r.table)+where, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `SELECT id, name, slug FROM ` + string(r.table) + where + ` ORDER BY name, id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Classifier, 0, limit)
	for rows.Next() {
		c := &models.Classifier{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Classifier) (*models.Classifier, error) {
	query := `INSERT INTO ` + string(r.table) + ` (name, slug) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, c.Name, c.Slug).Scan(&c.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Classifier, error) {
	query := `SELECT id, name, slug FROM ` + string(r.table) + ` WHERE slug = $1`

	c := &models.Classifier{}
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+string(r.table)+` WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}
