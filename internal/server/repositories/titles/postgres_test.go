package titles

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var titleColumns = []string{"id", "name", "year", "description", "c_id", "c_name", "c_slug", "rating"}
var genreColumns = []string{"id", "name", "slug"}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(models.TitleFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = filterClause(models.TitleFilter{Category: "films", Name: "god", Year: 1972})
	assert.Contains(t, where, "c.slug = $1")
	assert.Contains(t, where, "lower($2)")
	assert.Contains(t, where, "t.year = $3")
	assert.Equal(t, []any{"films", "god", 1972}, args)

	where, args = filterClause(models.TitleFilter{Genre: "drama"})
	assert.Contains(t, where, "g.slug = $1")
	assert.Equal(t, []any{"drama"}, args)
}

func TestList_PopulatesRelations(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM titles t`).
		WithArgs("films").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM titles t .* WHERE c.slug = \$1 GROUP BY t.id, c.id ORDER BY t.id LIMIT \$2 OFFSET \$3`).
		WithArgs("films", 10, 0).
		WillReturnRows(sqlmock.NewRows(titleColumns).
			AddRow(int64(1), "The Godfather", 1972, "", int64(1), "Films", "films", int64(9)).
			AddRow(int64(2), "Heat", 1995, "", int64(1), "Films", "films", nil))
	mock.ExpectQuery(`FROM genres g`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(genreColumns).AddRow(int64(3), "Drama", "drama"))
	mock.ExpectQuery(`FROM genres g`).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(genreColumns))

	got, total, err := repo.List(context.Background(), models.TitleFilter{Category: "films"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 9, *got[0].Rating)
	assert.Equal(t, "films", got[0].Category.Slug)
	assert.Equal(t, []models.Genre{{ID: 3, Name: "Drama", Slug: "drama"}}, got[0].Genre)

	assert.Nil(t, got[1].Rating)
	assert.Equal(t, []models.Genre{}, got[1].Genre)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NoCategory(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE t.id = \$1 GROUP BY`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(titleColumns).AddRow(int64(5), "Solaris", 1972, "space", nil, nil, nil, nil))
	mock.ExpectQuery(`FROM genres g`).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(genreColumns))

	got, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Equal(t, "Solaris", got.Name)
}

func TestGet_RatingIsTruncatedAverage(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`TRUNC\(AVG\(r.score\)\)::integer .* WHERE t.id = \$1`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(titleColumns).AddRow(int64(5), "Heat", 1995, "", nil, nil, nil, int64(4)))
	mock.ExpectQuery(`FROM genres g`).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(genreColumns))

	got, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE t.id = \$1`).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 5)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_WithAndWithoutCategory(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO titles \(name, year, description, category_id\)`).
		WithArgs("Heat", 1995, "", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	got, err := repo.Create(context.Background(), &models.Title{Name: "Heat", Year: 1995, Category: &models.Category{ID: 4}})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)

	mock.ExpectQuery(`INSERT INTO titles`).
		WithArgs("Heat", 1995, "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	_, err = repo.Create(context.Background(), &models.Title{Name: "Heat", Year: 1995})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGenres_ReplacesLinks(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM title_genres WHERE title_id = \$1`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO title_genres`).WithArgs(int64(1), int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO title_genres`).WithArgs(int64(1), int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetGenres(context.Background(), 1, []int64{7, 8}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE titles SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Update(context.Background(), &models.Title{ID: 1}), common.ErrorNotFound)

	mock.ExpectExec(`DELETE FROM titles WHERE id = \$1`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), 1), common.ErrorNotFound)
}
