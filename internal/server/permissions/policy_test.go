package permissions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

var (
	anon      *models.User
	plain     = &models.User{ID: 1, Role: models.RoleUser}
	other     = &models.User{ID: 2, Role: models.RoleUser}
	moderator = &models.User{ID: 3, Role: models.RoleModerator}
	admin     = &models.User{ID: 4, Role: models.RoleAdmin}
	superuser = &models.User{ID: 5, Role: models.RoleUser, IsSuperuser: true}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		user   *models.User
		target Target
		want   error
	}{
		{"anon reads titles", anon, Target{Resource: Titles, Action: Read}, nil},
		{"anon creates title", anon, Target{Resource: Titles, Action: Create}, common.ErrorUnauthorized},
		{"user creates title", plain, Target{Resource: Titles, Action: Create}, common.ErrorForbidden},
		{"moderator creates genre", moderator, Target{Resource: Genres, Action: Create}, nil},
		{"admin deletes category", admin, Target{Resource: Categories, Action: Delete}, nil},

		{"anon lists users", anon, Target{Resource: Users, Action: Read}, common.ErrorUnauthorized},
		{"user lists users", plain, Target{Resource: Users, Action: Read}, common.ErrorForbidden},
		{"moderator lists users", moderator, Target{Resource: Users, Action: Read}, common.ErrorForbidden},
		{"admin lists users", admin, Target{Resource: Users, Action: Read}, nil},
		{"superuser edits user", superuser, Target{Resource: Users, Action: Update}, nil},

		{"anon reads me", anon, Target{Resource: Me, Action: Read}, common.ErrorUnauthorized},
		{"user patches me", plain, Target{Resource: Me, Action: Update}, nil},

		{"anon reads review", anon, Target{Resource: Reviews, Action: Read, OwnerID: 1}, nil},
		{"anon creates review", anon, Target{Resource: Reviews, Action: Create}, common.ErrorUnauthorized},
		{"user creates review", plain, Target{Resource: Reviews, Action: Create}, nil},
		{"author edits review", plain, Target{Resource: Reviews, Action: Update, OwnerID: 1}, nil},
		{"stranger edits review", other, Target{Resource: Reviews, Action: Update, OwnerID: 1}, common.ErrorForbidden},
		{"moderator deletes comment", moderator, Target{Resource: Comments, Action: Delete, OwnerID: 1}, nil},
		{"stranger deletes comment", other, Target{Resource: Comments, Action: Delete, OwnerID: 1}, common.ErrorForbidden},
		{"superuser deletes comment", superuser, Target{Resource: Comments, Action: Delete, OwnerID: 1}, nil},

		{"unknown resource", admin, Target{Resource: "nope", Action: Read}, common.ErrorForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.user, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAllowAuthor_ZeroOwnerNeverMatches(t *testing.T) {
	u := &models.User{}
	assert.False(t, AllowAuthor.Allow(u, Target{Resource: Titles, Action: Update}))
}

func TestPolicy_ShortCircuits(t *testing.T) {
	calls := 0
	count := Rule{"count", func(*models.User, Target) bool { calls++; return false }}
	p := Policy{AllowRead, count}

	assert.True(t, p.Allows(nil, Target{Action: Read}))
	assert.Equal(t, 0, calls)

	assert.False(t, p.Allows(nil, Target{Action: Create}))
	assert.Equal(t, 1, calls)
}

func TestEveryResourceHasPolicy(t *testing.T) {
	for _, r := range []Resource{Categories, Genres, Titles, Users, Me, Reviews, Comments} {
		assert.NotEmpty(t, Policies[r], fmt.Sprint(r))
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, "unknown", Action(9).String())
}
