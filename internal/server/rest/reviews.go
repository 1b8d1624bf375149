package rest

import (
	"net/http"

	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/permissions"
	"github.com/yamdb/yamdb/internal/server/services"
)

type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Reviews, Action: permissions.Read}) {
		return
	}
	titleID, ok := h.pathID(w, r, "title_id")
	if !ok {
		return
	}

	win := h.pageParams(r)
	list, total, err := h.reviews.List(r.Context(), titleID, win.limit, win.offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, win, total, list))
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Reviews, Action: permissions.Create}) {
		return
	}
	titleID, ok := h.pathID(w, r, "title_id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	rv, err := h.reviews.Create(r.Context(), userFrom(r.Context()), titleID, req.Text, req.Score)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

// loadReview resolves the review addressed by the URL after checking that
// the caller may perform action on it.
func (h *Handler) loadReview(w http.ResponseWriter, r *http.Request, action permissions.Action) (*models.Review, bool) {
	target := permissions.Target{Resource: permissions.Reviews, Action: action}
	if !h.authorizeAnonymous(w, r, target) {
		return nil, false
	}
	titleID, ok := h.pathID(w, r, "title_id")
	if !ok {
		return nil, false
	}
	id, ok := h.pathID(w, r, "review_id")
	if !ok {
		return nil, false
	}

	rv, err := h.reviews.Get(r.Context(), titleID, id)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}

	target.OwnerID = rv.AuthorID
	if !h.authorize(w, r, target) {
		return nil, false
	}
	return rv, true
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.loadReview(w, r, permissions.Read)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handler) patchReview(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.loadReview(w, r, permissions.Update)
	if !ok {
		return
	}

	var patch services.ReviewPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	rv, err := h.reviews.Update(r.Context(), rv, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.loadReview(w, r, permissions.Delete)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), rv); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) reviewPath(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	if titleID, ok = h.pathID(w, r, "title_id"); !ok {
		return 0, 0, false
	}
	if reviewID, ok = h.pathID(w, r, "review_id"); !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Comments, Action: permissions.Read}) {
		return
	}
	titleID, reviewID, ok := h.reviewPath(w, r)
	if !ok {
		return
	}

	win := h.pageParams(r)
	list, total, err := h.reviews.ListComments(r.Context(), titleID, reviewID, win.limit, win.offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, win, total, list))
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Comments, Action: permissions.Create}) {
		return
	}
	titleID, reviewID, ok := h.reviewPath(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.reviews.CreateComment(r.Context(), userFrom(r.Context()), titleID, reviewID, req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) loadComment(w http.ResponseWriter, r *http.Request, action permissions.Action) (*models.Comment, bool) {
	target := permissions.Target{Resource: permissions.Comments, Action: action}
	if !h.authorizeAnonymous(w, r, target) {
		return nil, false
	}
	titleID, reviewID, ok := h.reviewPath(w, r)
	if !ok {
		return nil, false
	}
	id, ok := h.pathID(w, r, "comment_id")
	if !ok {
		return nil, false
	}

	c, err := h.reviews.GetComment(r.Context(), titleID, reviewID, id)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}

	target.OwnerID = c.AuthorID
	if !h.authorize(w, r, target) {
		return nil, false
	}
	return c, true
}

func (h *Handler) getComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, permissions.Read)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) patchComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, permissions.Update)
	if !ok {
		return
	}

	var patch services.CommentPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.reviews.UpdateComment(r.Context(), c, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadComment(w, r, permissions.Delete)
	if !ok {
		return
	}

	if err := h.reviews.DeleteComment(r.Context(), c); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
