package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/permissions"
)

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Me, Action: permissions.Read}) {
		return
	}
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *Handler) patchMe(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Me, Action: permissions.Update}) {
		return
	}

	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.UpdateMe(r.Context(), userFrom(r.Context()), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Users, Action: permissions.Read}) {
		return
	}

	win := h.pageParams(r)
	list, total, err := h.users.List(r.Context(), r.URL.Query().Get("search"), win.limit, win.offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, win, total, list))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Users, Action: permissions.Create}) {
		return
	}

	var u models.User
	if err := decode(r, &u); err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.users.Create(r.Context(), &u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Users, Action: permissions.Read}) {
		return
	}

	u, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) patchUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Users, Action: permissions.Update}) {
		return
	}

	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.users.Update(r.Context(), chi.URLParam(r, "username"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Users, Action: permissions.Delete}) {
		return
	}

	if err := h.users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
