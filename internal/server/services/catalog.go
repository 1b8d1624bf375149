package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/repomanager"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
)

// CatalogService manages categories, genres and titles.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m, now: time.Now}
}

func (s *CatalogService) classifiers(db dbx.DBTX, table taxonomy.Table) taxonomy.Repository {
	if table == taxonomy.Genres {
		return s.repomanager.Genres(db)
	}
	return s.repomanager.Categories(db)
}

func (s *CatalogService) ListClassifiers(ctx context.Context, table taxonomy.Table, search string, limit, offset int) ([]*models.Classifier, int, error) {
	list, total, err := s.classifiers(s.db, table).List(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	return list, total, nil
}

func (s *CatalogService) CreateClassifier(ctx context.Context, table taxonomy.Table, c *models.Classifier) (*models.Classifier, error) {
	if err := validationError(validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.Slug, validation.Required, validation.Length(1, 50), validation.Match(slugPattern)),
	)); err != nil {
		return nil, err
	}

	created, err := s.classifiers(s.db, table).Create(ctx, c)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("slug", "this slug is already taken")
		}
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	return created, nil
}

func (s *CatalogService) DeleteClassifier(ctx context.Context, table taxonomy.Table, slug string) error {
	return s.classifiers(s.db, table).DeleteBySlug(ctx, slug)
}

func (s *CatalogService) ListTitles(ctx context.Context, f models.TitleFilter, limit, offset int) ([]*models.Title, int, error) {
	list, total, err := s.repomanager.Titles(s.db).List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return list, total, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	return s.repomanager.Titles(s.db).Get(ctx, id)
}

// CreateTitle stores a title. Category and genres are required, given by
// slug, and must already exist.
func (s *CatalogService) CreateTitle(ctx context.Context, w models.TitleWrite) (*models.Title, error) {
	return s.writeTitle(ctx, &models.Title{}, w)
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, w models.TitleWrite) (*models.Title, error) {
	t, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.writeTitle(ctx, t, w)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	return s.repomanager.Titles(s.db).Delete(ctx, id)
}

// validateTitle checks t after w has been applied. A new title must also
// name its category and genres.
func (s *CatalogService) validateTitle(t *models.Title, w models.TitleWrite) error {
	verr := &common.ValidationError{Fields: map[string]string{}}

	err := validationError(validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&t.Year, validation.Required, validation.Min(1),
			validation.Max(s.now().Year()).Error("year cannot be in the future")),
	))
	if err != nil {
		var fields *common.ValidationError
		if !errors.As(err, &fields) {
			return err
		}
		for k, v := range fields.Fields {
			verr.Fields[k] = v
		}
	}

	if t.ID == 0 {
		if w.Category == nil || *w.Category == "" {
			verr.Fields["category"] = "this field is required"
		}
		if w.Genre == nil {
			verr.Fields["genre"] = "this field is required"
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// writeTitle applies w to t and persists it in one transaction. A new title
// has ID zero. Every slug is resolved before the first write.
func (s *CatalogService) writeTitle(ctx context.Context, t *models.Title, w models.TitleWrite) (*models.Title, error) {
	if w.Name != nil {
		t.Name = *w.Name
	}
	if w.Year != nil {
		t.Year = *w.Year
	}
	if w.Description != nil {
		t.Description = *w.Description
	}
	if err := s.validateTitle(t, w); err != nil {
		return nil, err
	}

	var out *models.Title
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if w.Category != nil {
			t.Category = nil
			if *w.Category != "" {
				c, err := s.resolve(ctx, s.repomanager.Categories(tx), "category", *w.Category)
				if err != nil {
					return err
				}
				t.Category = c
			}
		}

		var genreIDs []int64
		if w.Genre != nil {
			genreIDs = make([]int64, 0, len(*w.Genre))
			for _, slug := range *w.Genre {
				g, err := s.resolve(ctx, s.repomanager.Genres(tx), "genre", slug)
				if err != nil {
					return err
				}
				genreIDs = append(genreIDs, g.ID)
			}
		}

		repo := s.repomanager.Titles(tx)
		if t.ID == 0 {
			if _, err := repo.Create(ctx, t); err != nil {
				return fmt.Errorf("create title: %w", err)
			}
		} else if err := repo.Update(ctx, t); err != nil {
			return err
		}

		if genreIDs != nil {
			if err := repo.SetGenres(ctx, t.ID, genreIDs); err != nil {
				return fmt.Errorf("set genres: %w", err)
			}
		}

		var err error
		out, err = repo.Get(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) resolve(ctx context.Context, repo taxonomy.Repository, field, slug string) (*models.Classifier, error) {
	c, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewValidationError(field, fmt.Sprintf("object with slug=%s does not exist", slug))
		}
		return nil, fmt.Errorf("resolve %s: %w", field, err)
	}
	return c, nil
}
