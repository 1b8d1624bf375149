package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/permissions"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
)

func (h *Handler) classifierRoutes(table taxonomy.Table, res permissions.Resource) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if !h.authorize(w, r, permissions.Target{Resource: res, Action: permissions.Read}) {
				return
			}

			win := h.pageParams(r)
			list, total, err := h.catalog.ListClassifiers(r.Context(), table, r.URL.Query().Get("search"), win.limit, win.offset)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, newPage(r, win, total, list))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			if !h.authorize(w, r, permissions.Target{Resource: res, Action: permissions.Create}) {
				return
			}

			var c models.Classifier
			if err := decode(r, &c); err != nil {
				h.writeError(w, r, err)
				return
			}

			created, err := h.catalog.CreateClassifier(r.Context(), table, &c)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, created)
		})

		r.Delete("/{slug}", func(w http.ResponseWriter, r *http.Request) {
			if !h.authorize(w, r, permissions.Target{Resource: res, Action: permissions.Delete}) {
				return
			}

			if err := h.catalog.DeleteClassifier(r.Context(), table, chi.URLParam(r, "slug")); err != nil {
				h.writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func titleFilter(r *http.Request) (models.TitleFilter, error) {
	q := r.URL.Query()
	f := models.TitleFilter{
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
		Name:     q.Get("name"),
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return f, common.NewValidationError("year", "enter a whole number")
		}
		f.Year = year
	}
	return f, nil
}

func (h *Handler) listTitles(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Titles, Action: permissions.Read}) {
		return
	}

	f, err := titleFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	win := h.pageParams(r)
	list, total, err := h.catalog.ListTitles(r.Context(), f, win.limit, win.offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, win, total, list))
}

func (h *Handler) createTitle(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Titles, Action: permissions.Create}) {
		return
	}

	var tw models.TitleWrite
	if err := decode(r, &tw); err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.catalog.CreateTitle(r.Context(), tw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) getTitle(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Titles, Action: permissions.Read}) {
		return
	}
	id, ok := h.pathID(w, r, "title_id")
	if !ok {
		return
	}

	t, err := h.catalog.GetTitle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) patchTitle(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Titles, Action: permissions.Update}) {
		return
	}
	id, ok := h.pathID(w, r, "title_id")
	if !ok {
		return
	}

	var tw models.TitleWrite
	if err := decode(r, &tw); err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.catalog.UpdateTitle(r.Context(), id, tw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) deleteTitle(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, permissions.Target{Resource: permissions.Titles, Action: permissions.Delete}) {
		return
	}
	id, ok := h.pathID(w, r, "title_id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteTitle(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
