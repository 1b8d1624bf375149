package titles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const selectTitle = `
	SELECT t.id, t.name, t.year, t.description, c.id, c.name, c.slug,
	       TRUNC(AVG(r.score))::integer
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN reviews r ON r.title_id = t.id`

const groupTitle = ` GROUP BY t.id, c.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(row rowScanner) (*models.Title, error) {
	t := &models.Title{Genre: []models.Genre{}}
	var (
		catID   sql.NullInt64
		catName sql.NullString
		catSlug sql.NullString
		rating  sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Year, &t.Description, &catID, &catName, &catSlug, &rating); err != nil {
		return nil, err
	}
	if catID.Valid {
		t.Category = &models.Category{ID: catID.Int64, Name: catName.String, Slug: catSlug.String}
	}
	if rating.Valid {
		v := int(rating.Int64)
		t.Rating = &v
	}
	return t, nil
}

// filterClause renders f as a WHERE clause; placeholders start at $1.
func filterClause(f models.TitleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add(`c.slug = $%d`, f.Category)
	}
	if f.Genre != "" {
		add(`EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		             WHERE tg.title_id = t.id AND g.slug = $%d)`, f.Genre)
	}
	if f.Name != "" {
		add(`strpos(lower(t.name), lower($%d)) > 0`, f.Name)
	}
	if f.Year != 0 {
		add(`t.year = $%d`, f.Year)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, f models.TitleFilter, limit, offset int) ([]*models.Title, int, error) {
	where, args := filterClause(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	n := len(args)
	query := selectTitle + where + groupTitle + fmt.Sprintf(` ORDER BY t.id LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Title, 0, limit)
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	// Genres are loaded after the page is drained: a transaction cannot
	// run a second query while rows are still open.
	for _, t := range result {
		if t.Genre, err = r.genres(ctx, t.ID); err != nil {
			return nil, 0, err
		}
	}

	return result, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Title, error) {
	query := selectTitle + ` WHERE t.id = $1` + groupTitle

	t, err := scanTitle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if t.Genre, err = r.genres(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) genres(ctx context.Context, titleID int64) ([]models.Genre, error) {
	query := `
		SELECT g.id, g.name, g.slug
		FROM genres g
		JOIN title_genres tg ON tg.genre_id = g.id
		WHERE tg.title_id = $1
		ORDER BY g.name`

	rows, err := r.db.QueryContext(ctx, query, titleID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return genres, nil
}

func categoryID(t *models.Title) any {
	if t.Category == nil {
		return nil
	}
	return t.Category.ID
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Title) (*models.Title, error) {
	query :=
		`INSERT INTO titles (name, year, description, category_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, t.Name, t.Year, t.Description, categoryID(t)).Scan(&t.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Title) error {
	query :=
		`UPDATE titles SET name = $2, year = $3, description = $4, category_id = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Year, t.Description, categoryID(t))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}

func (r *PostgresRepository) SetGenres(ctx context.Context, titleID int64, genreIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, gid := range genreIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			titleID, gid); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}
