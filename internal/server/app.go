// Package server initializes and runs the catalog backend: it opens the
// database, applies migrations, seeds default data and starts the HTTP API
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/libkeeper/internal/logging"
	"github.com/dmitrijs2005/libkeeper/internal/server/cache"
	"github.com/dmitrijs2005/libkeeper/internal/server/config"
	"github.com/dmitrijs2005/libkeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/libkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/libkeeper/internal/server/seed"
	"github.com/dmitrijs2005/libkeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, app.db, ".")
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	userService := services.NewUserService(users.NewPostgresRepository(app.db), app.config)
	bookService := services.NewBookService(books.NewPostgresRepository(app.db), cache.New(app.config.CacheDefaultTTL))

	h := httpserver.NewHandler(userService, bookService, app.logger)
	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, h)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.runMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	if err := seed.Run(ctx, app.db); err != nil {
		app.logger.Error(ctx, "seed error", "error", err)
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
