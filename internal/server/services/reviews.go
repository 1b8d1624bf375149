package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/dbx"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/repomanager"
)

var errDuplicateReview = common.NewValidationError("non_field_errors", "you have already reviewed this title")

// ReviewPatch is a partial review update; nil fields are left unchanged.
type ReviewPatch struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// CommentPatch is a partial comment update.
type CommentPatch struct {
	Text *string `json:"text"`
}

// ReviewService manages reviews and their comments. Every operation is
// scoped to the parent title (and review), so mismatched ids are not found.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

func validateReview(r *models.Review) error {
	return validationError(validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Score, validation.Required, validation.Min(1), validation.Max(10)),
	))
}

func (s *ReviewService) List(ctx context.Context, titleID int64, limit, offset int) ([]*models.Review, int, error) {
	if _, err := s.repomanager.Titles(s.db).Get(ctx, titleID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repomanager.Reviews(s.db).List(ctx, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return list, total, nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	return s.repomanager.Reviews(s.db).Get(ctx, titleID, id)
}

// Create stores author's review of the title. An author may review a title
// only once.
func (s *ReviewService) Create(ctx context.Context, author *models.User, titleID int64, text string, score int) (*models.Review, error) {
	rv := &models.Review{TitleID: titleID, AuthorID: author.ID, Author: author.Username, Text: text, Score: score}
	if err := validateReview(rv); err != nil {
		return nil, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Titles(tx).Get(ctx, titleID); err != nil {
			return err
		}

		repo := s.repomanager.Reviews(tx)
		exists, err := repo.Exists(ctx, titleID, author.ID)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicateReview
		}

		if _, err := repo.Create(ctx, rv); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return errDuplicateReview
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) Update(ctx context.Context, rv *models.Review, patch ReviewPatch) (*models.Review, error) {
	if patch.Text != nil {
		rv.Text = *patch.Text
	}
	if patch.Score != nil {
		rv.Score = *patch.Score
	}
	if err := validateReview(rv); err != nil {
		return nil, err
	}
	if err := s.repomanager.Reviews(s.db).Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, rv *models.Review) error {
	return s.repomanager.Reviews(s.db).Delete(ctx, rv.TitleID, rv.ID)
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]*models.Comment, int, error) {
	if _, err := s.Get(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repomanager.Comments(s.db).List(ctx, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return list, total, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if _, err := s.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).Get(ctx, reviewID, id)
}

func (s *ReviewService) CreateComment(ctx context.Context, author *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	c := &models.Comment{ReviewID: reviewID, AuthorID: author.ID, Author: author.Username, Text: text}
	if err := validationError(validation.ValidateStruct(c, validation.Field(&c.Text, validation.Required))); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Comments(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, c *models.Comment, patch CommentPatch) (*models.Comment, error) {
	if patch.Text != nil {
		c.Text = *patch.Text
	}
	if err := validationError(validation.ValidateStruct(c, validation.Field(&c.Text, validation.Required))); err != nil {
		return nil, err
	}
	if err := s.repomanager.Comments(s.db).Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, c *models.Comment) error {
	return s.repomanager.Comments(s.db).Delete(ctx, c.ReviewID, c.ID)
}
