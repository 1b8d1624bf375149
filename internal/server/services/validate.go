// Package services contains server-side business logic: signup and token
// exchange, user administration, the title catalog, reviews and comments.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/users"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func notReserved(value any) error {
	if s, _ := value.(string); s == common.ReservedUsername {
		return fmt.Errorf("username %q is reserved", common.ReservedUsername)
	}
	return nil
}

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, 150),
		validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_"),
		validation.By(notReserved),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Length(1, 254), is.Email}
}

func validRole(value any) error {
	if r, _ := value.(models.Role); !r.IsValid() {
		return fmt.Errorf("%q is not a valid choice", r)
	}
	return nil
}

// validationError turns ozzo-validation output into a *common.ValidationError.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &common.ValidationError{Fields: make(map[string]string, len(verrs))}
	for field, ferr := range verrs {
		out.Fields[field] = ferr.Error()
	}
	return out
}

func validateUser(u *models.User) error {
	return validationError(validation.ValidateStruct(u,
		validation.Field(&u.Username, usernameRules()...),
		validation.Field(&u.Email, emailRules()...),
		validation.Field(&u.FirstName, validation.Length(0, 150)),
		validation.Field(&u.LastName, validation.Length(0, 150)),
		validation.Field(&u.Role, validation.Required, validation.By(validRole)),
	))
}

// uniqueConflict explains which field of u collided with an existing user
// after the store reported common.ErrorAlreadyExists.
func uniqueConflict(ctx context.Context, repo users.Repository, u *models.User) error {
	if other, err := repo.GetByUsername(ctx, u.Username); err == nil && other.ID != u.ID {
		return common.NewValidationError("username", "a user with that username already exists")
	}
	return common.NewValidationError("email", "a user with that email already exists")
}
