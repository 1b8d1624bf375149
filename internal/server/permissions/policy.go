// Package permissions decides whether a requester may perform an action on a
// resource. Each resource has an ordered list of rules; the first rule that
// allows the request wins and there is no explicit deny.
package permissions

import (
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

type Resource string

const (
	Categories Resource = "categories"
	Genres     Resource = "genres"
	Titles     Resource = "titles"
	Users      Resource = "users"
	Me         Resource = "me"
	Reviews    Resource = "reviews"
	Comments   Resource = "comments"
)

// Target is what a request touches. OwnerID is the author of the object, or
// zero for collections and resources without an author.
type Target struct {
	Resource Resource
	Action   Action
	OwnerID  int64
}

// Rule grants access when Allow returns true. user is nil for anonymous
// requests.
type Rule struct {
	Name  string
	Allow func(user *models.User, t Target) bool
}

type Policy []Rule

var (
	AllowRead = Rule{"AllowRead", func(_ *models.User, t Target) bool {
		return t.Action == Read
	}}
	AllowAuthenticated = Rule{"AllowAuthenticated", func(u *models.User, _ Target) bool {
		return u != nil
	}}
	AllowAuthenticatedCreate = Rule{"AllowAuthenticatedCreate", func(u *models.User, t Target) bool {
		return u != nil && t.Action == Create
	}}
	AllowAuthor = Rule{"AllowAuthor", func(u *models.User, t Target) bool {
		return u != nil && t.OwnerID != 0 && u.ID == t.OwnerID
	}}
	AllowStaff = Rule{"AllowStaff", func(u *models.User, _ Target) bool {
		return u.IsStaff()
	}}
	AllowAdmin = Rule{"AllowAdmin", func(u *models.User, _ Target) bool {
		return u.IsAdmin()
	}}
)

var catalog = Policy{AllowRead, AllowAuthor, AllowStaff}

var content = Policy{AllowRead, AllowAuthenticatedCreate, AllowAuthor, AllowStaff}

// Policies maps every resource to its rules.
var Policies = map[Resource]Policy{
	Categories: catalog,
	Genres:     catalog,
	Titles:     catalog,
	Users:      {AllowAdmin},
	Me:         {AllowAuthenticated},
	Reviews:    content,
	Comments:   content,
}

// Allows reports whether any rule in p grants the request.
func (p Policy) Allows(user *models.User, t Target) bool {
	for _, r := range p {
		if r.Allow(user, t) {
			return true
		}
	}
	return false
}

// Decide returns nil when the request is allowed. A denied anonymous request
// yields common.ErrorUnauthorized, a denied authenticated one
// common.ErrorForbidden. Unknown resources are denied.
func Decide(user *models.User, t Target) error {
	if Policies[t.Resource].Allows(user, t) {
		return nil
	}
	if user == nil {
		return common.ErrorUnauthorized
	}
	return common.ErrorForbidden
}
