package memory

import (
	"context"
	"sort"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
)

// deleteReview removes a review and its comments; the caller holds the lock.
func (s *store) deleteReview(id int64) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *store) authorName(id int64) string {
	if u, ok := s.users[id]; ok {
		return u.Username
	}
	return ""
}

type reviewRepo struct {
	s *store
}

func (r *reviewRepo) List(_ context.Context, titleID int64, limit, offset int) ([]*models.Review, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.Review
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			c := *rv
			c.Author = r.s.authorName(c.AuthorID)
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func (r *reviewRepo) Get(_ context.Context, titleID, id int64) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok || rv.TitleID != titleID {
		return nil, common.ErrorNotFound
	}
	c := *rv
	c.Author = r.s.authorName(c.AuthorID)
	return &c, nil
}

func (r *reviewRepo) Exists(_ context.Context, titleID, authorID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.reviewExists(titleID, authorID), nil
}

func (s *store) reviewExists(titleID, authorID int64) bool {
	for _, rv := range s.reviews {
		if rv.TitleID == titleID && rv.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (r *reviewRepo) Create(_ context.Context, rv *models.Review) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[rv.TitleID]; !ok {
		return nil, common.ErrorNotFound
	}
	if r.s.reviewExists(rv.TitleID, rv.AuthorID) {
		return nil, common.ErrorAlreadyExists
	}
	rv.ID = r.s.nextID()
	rv.PubDate = r.s.now()
	c := *rv
	r.s.reviews[rv.ID] = &c
	return rv, nil
}

func (r *reviewRepo) Update(_ context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.reviews[rv.ID]
	if !ok || cur.TitleID != rv.TitleID {
		return common.ErrorNotFound
	}
	cur.Text, cur.Score = rv.Text, rv.Score
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, titleID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.reviews[id]
	if !ok || cur.TitleID != titleID {
		return common.ErrorNotFound
	}
	r.s.deleteReview(id)
	return nil
}

type commentRepo struct {
	s *store
}

func (r *commentRepo) List(_ context.Context, reviewID int64, limit, offset int) ([]*models.Comment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.Comment
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			cp := *c
			cp.Author = r.s.authorName(cp.AuthorID)
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func (r *commentRepo) Get(_ context.Context, reviewID, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, common.ErrorNotFound
	}
	cp := *c
	cp.Author = r.s.authorName(cp.AuthorID)
	return &cp, nil
}

func (r *commentRepo) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[c.ReviewID]; !ok {
		return nil, common.ErrorNotFound
	}
	c.ID = r.s.nextID()
	c.PubDate = r.s.now()
	cp := *c
	r.s.comments[c.ID] = &cp
	return c, nil
}

func (r *commentRepo) Update(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.comments[c.ID]
	if !ok || cur.ReviewID != c.ReviewID {
		return common.ErrorNotFound
	}
	cur.Text = c.Text
	return nil
}

func (r *commentRepo) Delete(_ context.Context, reviewID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.comments[id]
	if !ok || cur.ReviewID != reviewID {
		return common.ErrorNotFound
	}
	delete(r.s.comments, id)
	return nil
}
