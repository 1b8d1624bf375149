// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/yamdb/yamdb/internal/common"
	"github.com/yamdb/yamdb/internal/logging"
	"github.com/yamdb/yamdb/internal/server/auth"
	"github.com/yamdb/yamdb/internal/server/config"
	"github.com/yamdb/yamdb/internal/server/mailer"
	"github.com/yamdb/yamdb/internal/server/models"
	"github.com/yamdb/yamdb/internal/server/repositories/repomanager"
	"github.com/yamdb/yamdb/internal/server/rest"
	"github.com/yamdb/yamdb/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	server *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	keys, err := auth.DeriveKeys(c.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ml, err := mailer.New(c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	svc := rest.Services{
		Auth:    services.NewAuthService(db, rm, c, keys, ml, logger),
		Users:   services.NewUserService(db, rm),
		Catalog: services.NewCatalogService(db, rm),
		Reviews: services.NewReviewService(db, rm),
	}
	handler := rest.NewHandler(svc, c, logger).Routes()

	return &App{
		config: c,
		logger: logger,
		db:     db,
		repos:  rm,
		server: rest.NewServer(c.HTTPAddr, handler, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

// CreateSuperuser inserts an administrator flagged as superuser. The account
// logs in through the regular signup and token flow.
func (app *App) CreateSuperuser(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, errors.New("username and email are required")
	}
	if username == common.ReservedUsername {
		return nil, fmt.Errorf("username %q is reserved", username)
	}

	u, err := app.repos.Users(app.db).Create(ctx, &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleAdmin,
		IsSuperuser: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create superuser: %w", err)
	}
	return u, nil
}

func (app *App) Close() error {
	return app.db.Close()
}
