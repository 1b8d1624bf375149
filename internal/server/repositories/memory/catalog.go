package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
)

type classifierRepo struct {
	s     *store
	table taxonomy.Table
	rows  map[string]*models.Classifier
}

func (r *classifierRepo) List(_ context.Context, search string, limit, offset int) ([]*models.Classifier, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.Classifier
	for _, c := range r.rows {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), len(all), nil
}

func (r *classifierRepo) Create(_ context.Context, c *models.Classifier) (*models.Classifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.rows[c.Slug]; ok {
		return nil, common.ErrorAlreadyExists
	}
	c.ID = r.s.nextID()
	cp := *c
	r.rows[c.Slug] = &cp
	return c, nil
}

func (r *classifierRepo) GetBySlug(_ context.Context, slug string) (*models.Classifier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.rows[slug]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *classifierRepo) DeleteBySlug(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.rows[slug]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, slug)

	for _, t := range r.s.titles {
		switch r.table {
		case taxonomy.Categories:
			if t.category == slug {
				t.category = ""
			}
		case taxonomy.Genres:
			kept := t.genres[:0]
			for _, gid := range t.genres {
				if gid != c.ID {
					kept = append(kept, gid)
				}
			}
			t.genres = kept
		}
	}
	return nil
}

type titleRepo struct {
	s *store
}

// materialize resolves relations and the rating; the caller holds the lock.
func (s *store) materialize(row *titleRow) *models.Title {
	t := row.title
	t.Category = nil
	if c, ok := s.categories[row.category]; ok && row.category != "" {
		cp := *c
		t.Category = &cp
	}

	t.Genre = []models.Genre{}
	for _, g := range s.genres {
		for _, gid := range row.genres {
			if g.ID == gid {
				t.Genre = append(t.Genre, *g)
			}
		}
	}
	sort.Slice(t.Genre, func(i, j int) bool { return t.Genre[i].Name < t.Genre[j].Name })

	var sum, n int
	for _, rv := range s.reviews {
		if rv.TitleID == t.ID {
			sum += rv.Score
			n++
		}
	}
	t.Rating = nil
	if n > 0 {
		v := sum / n
		t.Rating = &v
	}
	return &t
}

func matches(t *models.Title, f models.TitleFilter) bool {
	if f.Category != "" && (t.Category == nil || t.Category.Slug != f.Category) {
		return false
	}
	if f.Genre != "" {
		found := false
		for _, g := range t.Genre {
			found = found || g.Slug == f.Genre
		}
		if !found {
			return false
		}
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
		return false
	}
	return f.Year == 0 || t.Year == f.Year
}

func (r *titleRepo) List(_ context.Context, f models.TitleFilter, limit, offset int) ([]*models.Title, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*models.Title
	for _, row := range r.s.titles {
		if t := r.s.materialize(row); matches(t, f) {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), len(all), nil
}

func (r *titleRepo) Get(_ context.Context, id int64) (*models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.titles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.materialize(row), nil
}

func categorySlug(t *models.Title) string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Slug
}

func (r *titleRepo) Create(_ context.Context, t *models.Title) (*models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = r.s.nextID()
	r.s.titles[t.ID] = &titleRow{title: *t, category: categorySlug(t)}
	return t, nil
}

func (r *titleRepo) Update(_ context.Context, t *models.Title) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.titles[t.ID]
	if !ok {
		return common.ErrorNotFound
	}
	row.title = *t
	row.category = categorySlug(t)
	return nil
}

func (r *titleRepo) SetGenres(_ context.Context, titleID int64, genreIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.titles[titleID]
	if !ok {
		return common.ErrorNotFound
	}
	row.genres = append([]int64(nil), genreIDs...)
	return nil
}

func (r *titleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.titles, id)
	for rid, rv := range r.s.reviews {
		if rv.TitleID == id {
			r.s.deleteReview(rid)
		}
	}
	return nil
}
