package reviews

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
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectReview = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scanReview(scan func(dest ...any) error) (*models.Review, error) {
	r := &models.Review{}
	if err := scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) List(ctx context.Context, titleID int64, limit, offset int) ([]*models.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectReview+` WHERE r.title_id = $1 ORDER BY r.pub_date, r.id LIMIT $2 OFFSET $3`,
		titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Review, 0, limit)
	for rows.Next() {
		rv, err := scanReview(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx, selectReview+` WHERE r.title_id = $1 AND r.id = $2`, titleID, id)

	rv, err := scanReview(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, titleID, authorID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, titleID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rv *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO reviews (title_id, author_id, text, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, pub_date`

	err := r.db.QueryRowContext(ctx, query, rv.TitleID, rv.AuthorID, rv.Text, rv.Score).Scan(&rv.ID, &rv.PubDate)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		case dbx.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: %w", common.ErrorNotFound, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rv *models.Review) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET text = $3, score = $4 WHERE title_id = $1 AND id = $2`,
		rv.TitleID, rv.ID, rv.Text, rv.Score)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, titleID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE title_id = $1 AND id = $2`, titleID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}
