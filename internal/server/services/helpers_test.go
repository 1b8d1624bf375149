package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/auth"
	"github.com/yamdb/yamdb/internal/server/config"
	"github.com/yamdb/yamdb/internal/server/mailer"
	"github.com/yamdb/yamdb/internal/server/repositories/memory"
	_ "modernc.org/sqlite"
)

// newTxDB returns a database that only serves dbx.WithTx; the memory
// repositories ignore it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no mail sent")
	body := f.sent[len(f.sent)-1].Body
	require.True(t, strings.HasPrefix(body, "code: "), body)
	return strings.TrimPrefix(body, "code: ")
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

type authFixture struct {
	db   *sql.DB
	repo *memory.RepositoryManager
	mail *fakeMailer
	svc  *AuthService
}

func newAuthFixture(t *testing.T, mutate ...func(*config.Config)) *authFixture {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	keys, err := auth.DeriveKeys(cfg.SecretKey)
	require.NoError(t, err)

	f := &authFixture{db: newTxDB(t), repo: memory.NewRepositoryManager(), mail: &fakeMailer{}}
	f.svc = NewAuthService(f.db, f.repo, cfg, keys, f.mail, logging.Nop{})
	return f
}
