package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/auth"
	"github.com/yamdb/yamdb/internal/server/config"
	"github.com/yamdb/yamdb/internal/server/mailer"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/memory"
	"github.com/yamdb/yamdb/internal/server/services"
	_ "modernc.org/sqlite"
)

type captureMailer struct {
	mu   sync.Mutex
	last map[string]string
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.last == nil {
		m.last = map[string]string{}
	}
	m.last[msg.To] = strings.TrimPrefix(msg.Body, "code: ")
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[email]
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	repo    *memory.RepositoryManager
	mail    *captureMailer
	cfg     *config.Config
}

func newTestAPI(t *testing.T, mutate ...func(*config.Config)) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "rest-test-secret"
	for _, m := range mutate {
		m(cfg)
	}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	keys, err := auth.DeriveKeys(cfg.SecretKey)
	require.NoError(t, err)

	repo := memory.NewRepositoryManager()
	mail := &captureMailer{}
	svc := Services{
		Auth:    services.NewAuthService(db, repo, cfg, keys, mail, logging.Nop{}),
		Users:   services.NewUserService(db, repo),
		Catalog: services.NewCatalogService(db, repo),
		Reviews: services.NewReviewService(db, repo),
	}

	return &testAPI{
		t:       t,
		handler: NewHandler(svc, cfg, logging.Nop{}).Routes(),
		repo:    repo,
		mail:    mail,
		cfg:     cfg,
	}
}

// do sends a JSON request and decodes a JSON response into out when given.
func (a *testAPI) do(method, path, token string, body any, out any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

// login signs a user up through the API, assigns role, and returns a token.
func (a *testAPI) login(username string, role models.Role) string {
	a.t.Helper()
	email := username + "@yamdb.test"

	rec := a.do(http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{"username": username, "email": email}, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	if role != models.RoleUser {
		repo := a.repo.Users(nil)
		u, err := repo.GetByUsername(context.Background(), username)
		require.NoError(a.t, err)
		u.Role = role
		_, err = repo.Update(context.Background(), u)
		require.NoError(a.t, err)
	}

	var resp map[string]string
	rec = a.do(http.MethodPost, "/api/v1/auth/token/", "",
		map[string]string{"username": username, "confirmation_code": a.mail.code(email)}, &resp)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(a.t, resp["token"])
	return resp["token"]
}
