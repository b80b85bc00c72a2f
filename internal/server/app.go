// Package server initializes and runs the auth server.
// It opens and migrates the database, wires the auth service, handles
// graceful shutdown and starts the gRPC, observability and janitor loops.
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
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/observability"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

const dbConnectBaseDelay = 500 * time.Millisecond

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	authService   *services.AuthService
	janitor       *services.TokenJanitor
	observability *observability.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	hasher, err := auth.NewArgon2idHasher(auth.Argon2Params{
		Iterations: c.HashIterations,
		MemoryKiB:  c.HashMemoryKiB,
		Threads:    c.HashThreads,
	})
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	db, err := dbx.Open(ctx, "pgx", c.DatabaseDSN, uint64(max(c.DBConnectAttempts, 0)), dbConnectBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: services.NewAuthService(db, rm, hasher, c, logger),
		janitor:     services.NewTokenJanitor(db, rm, c, logger),
	}

	if c.MetricsAddr != "" {
		app.observability = observability.NewServer(c.MetricsAddr, logger, db.PingContext)
		services.RegisterMetrics(app.observability.Registry())
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startObservabilityServer(ctx context.Context, cancelFunc context.CancelFunc) {

	if err := app.observability.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.observability != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startObservabilityServer(ctx, cancelFunc)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
