package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/auth"
	"github.com/yamdb/yamdb/internal/server/config"
	"github.com/yamdb/yamdb/internal/server/mailer"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/repomanager"
)

// SignupResult reports the account a signup resolved to. Delivered is false
// when the confirmation code could not be mailed.
type SignupResult struct {
	User      *models.User
	Delivered bool
}

// AuthService issues confirmation codes and exchanges them for access tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codes       *auth.CodeGenerator
	tokens      *auth.TokenIssuer
	mailer      mailer.Mailer
	subject     string
	singleUse   bool
	log         logging.Logger
	now         func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, keys auth.Keys,
	ml mailer.Mailer, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codes:       auth.NewCodeGenerator(keys.Code, cfg.ConfirmationCodeTimeout),
		tokens:      auth.NewTokenIssuer(keys.Token, cfg.AccessTokenValidityDuration),
		mailer:      ml,
		subject:     cfg.MailSubject,
		singleUse:   cfg.SingleUseCodes,
		log:         log,
		now:         time.Now,
	}
}

type signupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup finds or creates the user identified by the (username, email) pair
// and mails them a confirmation code. Repeating a signup is harmless.
// A failed delivery is not an error: the account is kept and the result
// reports Delivered=false.
func (s *AuthService) Signup(ctx context.Context, username, email string) (*SignupResult, error) {
	in := signupInput{Username: username, Email: email}
	if err := validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Username, usernameRules()...),
		validation.Field(&in.Email, emailRules()...),
	)); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsernameAndEmail(ctx, username, email)
	if errors.Is(err, common.ErrorNotFound) {
		user, err = repo.Create(ctx, &models.User{Username: username, Email: email, Role: models.RoleUser})
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Either a concurrent identical signup won the insert, or one
			// of the fields belongs to somebody else.
			user, err = repo.GetByUsernameAndEmail(ctx, username, email)
			if errors.Is(err, common.ErrorNotFound) {
				return nil, uniqueConflict(ctx, repo, &models.User{Username: username, Email: email})
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	res := &SignupResult{User: user, Delivered: true}

	msg := mailer.Message{
		To:      user.Email,
		Subject: s.subject,
		Body:    "code: " + s.codes.MakeCode(user),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn(ctx, "confirmation code not delivered", "username", user.Username, "error", err)
		res.Delivered = false
	}

	return res, nil
}

type exchangeInput struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// Exchange trades a confirmation code for a signed access token.
func (s *AuthService) Exchange(ctx context.Context, username, code string) (string, error) {
	in := exchangeInput{Username: username, ConfirmationCode: code}
	if err := validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.ConfirmationCode, validation.Required),
	)); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("exchange: %w", err)
	}

	if !s.codes.CheckCode(user, code) {
		return "", common.ErrorInvalidCode
	}

	if s.singleUse {
		if err := repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
			return "", fmt.Errorf("record login: %w", err)
		}
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user. A token for a user that
// no longer exists is treated as invalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}
