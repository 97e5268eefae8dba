// Package server wires configuration, storage and services together and runs
// the HTTP API and the gRPC health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/cryptox"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/auth"
	"github.com/dmitrijs2005/cyberspace/internal/server/config"
	"github.com/dmitrijs2005/cyberspace/internal/server/notify"
	"github.com/dmitrijs2005/cyberspace/internal/server/ratelimit"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cyberspace/internal/server/rest"
	"github.com/dmitrijs2005/cyberspace/internal/server/services"
	"github.com/dmitrijs2005/cyberspace/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/cyberspace/internal/server/grpc"
)

// startupTimeout bounds migrations and backend initialisation.
const startupTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *rest.Server
	grpc    *gs.GRPCServer
	closers []func() error
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (app *App, err error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	app = &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	limiter, closeLimiter, err := ratelimit.New(c.RedisAddr, c.ResetRateLimit, c.ResetRateWindow)
	if err != nil {
		return nil, fmt.Errorf("rate limiter init error: %w", err)
	}
	app.closers = append(app.closers, closeLimiter)

	notifier := newNotifier(c, logger)

	credentials := services.NewCredentialStore(db, rm, cryptox.NewArgon2Hasher(cryptox.DefaultArgon2Params))
	otps := services.NewOTPManager(db, rm, c.OTPValidityDuration)
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	users := services.NewUserService(db, rm, credentials, issuer, store, notifier, logger)
	reset := services.NewResetService(db, rm, credentials, otps, notifier, limiter, logger)
	registrations := services.NewRegistrationService(db, rm, store, logger)

	if c.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := rest.NewRouter(rest.Deps{
		Users:         users,
		Auth:          users,
		Reset:         reset,
		Registrations: registrations,
		DB:            db,
		Logger:        logger,
		CORSOrigins:   c.CORSOrigins,
		Registry:      reg,
		Gatherer:      reg,
	})
	if err != nil {
		return nil, fmt.Errorf("router init error: %w", err)
	}

	app.http = rest.NewServer(c.EndpointAddrHTTP, router, logger)
	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, db, logger)

	return app, nil
}

func newNotifier(c *config.Config, logger logging.Logger) notify.Notifier {
	if c.SMTPHost == "" {
		return notify.NewLoggingNotifier(logger)
	}
	return notify.NewSMTPNotifier(notify.SMTPOptions{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	})
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

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or either server fails, then releases
// every resource the app holds.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.http)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.grpc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
