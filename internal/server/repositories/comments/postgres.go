package comments

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

const selectComment = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func (r *PostgresRepository) List(ctx context.Context, reviewID int64, limit, offset int) ([]*models.Comment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectComment+` WHERE c.review_id = $1 ORDER BY c.pub_date, c.id LIMIT $2 OFFSET $3`,
		reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Comment, 0, limit)
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, selectComment+` WHERE c.review_id = $1 AND c.id = $2`, reviewID, id).
		Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (review_id, author_id, text)
		 VALUES ($1, $2, $3)
		 RETURNING id, pub_date`

	if err := r.db.QueryRowContext(ctx, query, c.ReviewID, c.AuthorID, c.Text).Scan(&c.ID, &c.PubDate); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %w", common.ErrorNotFound, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Comment) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET text = $3 WHERE review_id = $1 AND id = $2`,
		c.ReviewID, c.ID, c.Text)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, reviewID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE review_id = $1 AND id = $2`, reviewID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}
