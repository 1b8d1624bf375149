// Package rest exposes the services over a JSON HTTP API rooted at /api/v1.
package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/config"
	"github.com/yamdb/yamdb/internal/server/permissions"
	"github.com/yamdb/yamdb/internal/server/repositories/taxonomy"
	"github.com/yamdb/yamdb/internal/server/services"
)

type Services struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

type Handler struct {
	authn    Authenticator
	auth     *services.AuthService
	users    *services.UserService
	catalog  *services.CatalogService
	reviews  *services.ReviewService
	hosts    []string
	pageSize int
	logger   logging.Logger
}

func NewHandler(svc Services, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		authn:    svc.Auth,
		auth:     svc.Auth,
		users:    svc.Users,
		catalog:  svc.Catalog,
		reviews:  svc.Reviews,
		hosts:    cfg.AllowedHosts,
		pageSize: cfg.PageSize,
		logger:   logger.With("module", "rest"),
	}
}

// Routes builds the router. Trailing slashes are optional on every route.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(allowedHosts(h.hosts))
	r.Use(middleware.StripSlashes)
	r.Use(h.authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, common.ErrorNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, detail{"Method not allowed."})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.signup)
		r.Post("/auth/token", h.token)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.getMe)
			r.Patch("/me", h.patchMe)

			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/{username}", h.getUser)
			r.Patch("/{username}", h.patchUser)
			r.Delete("/{username}", h.deleteUser)
		})

		r.Route("/categories", h.classifierRoutes(taxonomy.Categories, permissions.Categories))
		r.Route("/genres", h.classifierRoutes(taxonomy.Genres, permissions.Genres))

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", h.listTitles)
			r.Post("/", h.createTitle)

			r.Route("/{title_id}", func(r chi.Router) {
				r.Get("/", h.getTitle)
				r.Patch("/", h.patchTitle)
				r.Delete("/", h.deleteTitle)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", h.listReviews)
					r.Post("/", h.createReview)

					r.Route("/{review_id}", func(r chi.Router) {
						r.Get("/", h.getReview)
						r.Patch("/", h.patchReview)
						r.Delete("/", h.deleteReview)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", h.listComments)
							r.Post("/", h.createComment)
							r.Get("/{comment_id}", h.getComment)
							r.Patch("/{comment_id}", h.patchComment)
							r.Delete("/{comment_id}", h.deleteComment)
						})
					})
				})
			})
		})
	})

	return r
}

// authorize writes the denial and returns false when the caller may not
// perform t.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, t permissions.Target) bool {
	if err := permissions.Decide(userFrom(r.Context()), t); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// authorizeAnonymous runs the policy before an object is loaded. Anonymous
// callers can never own an object, so their outcome does not depend on it;
// authenticated callers are checked again once the owner is known.
func (h *Handler) authorizeAnonymous(w http.ResponseWriter, r *http.Request, t permissions.Target) bool {
	if userFrom(r.Context()) != nil {
		return true
	}
	return h.authorize(w, r, t)
}

// pathID parses a numeric URL parameter. Malformed ids are reported as not
// found.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, r, common.ErrorNotFound)
		return 0, false
	}
	return id, true
}
