package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/server/models"
)

func TestReviewsAndComments(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("root", models.RoleAdmin)
	bob := api.login("bob", models.RoleUser)
	eve := api.login("eve", models.RoleUser)
	mod := api.login("mod", models.RoleModerator)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/categories/", admin,
		map[string]string{"name": "Films", "slug": "films"}, nil).Code)

	var title, other models.Title
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/titles/", admin,
		map[string]any{"name": "Heat", "year": 1995, "category": "films", "genre": []string{}}, &title).Code)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/titles/", admin,
		map[string]any{"name": "Solaris", "year": 1972, "category": "films", "genre": []string{}}, &other).Code)

	reviews := "/api/v1/titles/" + itoa(title.ID) + "/reviews/"

	rec := api.do(http.MethodPost, reviews, "", map[string]any{"text": "anon", "score": 5}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var rv models.Review
	rec = api.do(http.MethodPost, reviews, bob, map[string]any{"text": "great", "score": 9}, &rv)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "bob", rv.Author)

	var dup map[string][]string
	rec = api.do(http.MethodPost, reviews, bob, map[string]any{"text": "again", "score": 1}, &dup)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, dup, "non_field_errors")

	rec = api.do(http.MethodPost, reviews, eve, map[string]any{"text": "bad score", "score": 11}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var rated models.Title
	api.do(http.MethodGet, "/api/v1/titles/"+itoa(title.ID)+"/", "", nil, &rated)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 9, *rated.Rating)

	item := reviews + itoa(rv.ID) + "/"

	rec = api.do(http.MethodGet, item, "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPatch, item, "", map[string]any{"text": "anon edit"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPatch, item, eve, map[string]any{"text": "not mine"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var edited models.Review
	rec = api.do(http.MethodPatch, item, bob, map[string]any{"score": 7}, &edited)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, edited.Score)
	assert.Equal(t, "great", edited.Text)

	rec = api.do(http.MethodGet, "/api/v1/titles/"+itoa(other.ID)+"/reviews/"+itoa(rv.ID)+"/", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "review does not belong to that title")

	rec = api.do(http.MethodPatch, reviews+"999/", eve, map[string]any{"text": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	comments := item + "comments/"

	var c models.Comment
	rec = api.do(http.MethodPost, comments, eve, map[string]string{"text": "disagree"}, &c)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "eve", c.Author)

	wrong := "/api/v1/titles/" + itoa(other.ID) + "/reviews/" + itoa(rv.ID) + "/comments/"
	rec = api.do(http.MethodGet, wrong, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var list page[models.Comment]
	rec = api.do(http.MethodGet, comments, "", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, list.Count)

	commentItem := comments + itoa(c.ID) + "/"
	rec = api.do(http.MethodPatch, commentItem, bob, map[string]string{"text": "hijack"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodDelete, commentItem, mod, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, item, mod, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "moderators may delete any review")

	rec = api.do(http.MethodGet, item, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
