package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

type userRepo struct {
	s *store
}

func (r *userRepo) conflict(u *models.User) bool {
	for _, other := range r.s.users {
		if other.ID != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflict(u) {
		return nil, common.ErrorAlreadyExists
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ID = r.s.nextID()
	u.DateJoined = r.s.now()

	c := *u
	r.s.users[c.ID] = &c
	return u, nil
}

func (r *userRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *userRepo) GetByUsernameAndEmail(_ context.Context, username, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username && u.Email == email })
}

func (r *userRepo) List(_ context.Context, search string, limit, offset int) ([]*models.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.User
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			c := *u
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func (r *userRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if r.conflict(u) {
		return nil, common.ErrorAlreadyExists
	}
	c := *u
	c.IsSuperuser, c.LastLogin, c.DateJoined = cur.IsSuperuser, cur.LastLogin, cur.DateJoined
	r.s.users[u.ID] = &c

	out := c
	return &out, nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for rid, rv := range r.s.reviews {
		if rv.AuthorID == id {
			r.s.deleteReview(rid)
		}
	}
	for cid, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *userRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	at = at.Truncate(time.Microsecond)
	u.LastLogin = &at
	return nil
}
