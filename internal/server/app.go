// Package server initializes and runs the account server.
// It selects the storage backend and mail provider from config, wires the
// services, starts the HTTP server and the expired-token sweeper, and shuts
// everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/accountkeeper/internal/server/mail"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/dmitrijs2005/accountkeeper/internal/server/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	MailLog    = "log"
	MailSES    = "ses"
	MailResend = "resend"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *httpapi.HTTPServer
	sweeper *services.TokenSweeper
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	clock := timex.RealClock{}

	repos, tx, db, err := openStorage(ctx, c, clock)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mailer, err := newMailer(ctx, c, logger)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	codec := auth.NewCodec(clock)
	d := services.Deps{
		Tx:        tx,
		Repos:     repos,
		Clock:     clock,
		Hasher:    auth.NewBcryptHasher(c.BcryptCost),
		Codec:     codec,
		Validator: validation.New(),
		Mailer:    mailer,
		Metrics:   m,
		Log:       logger,
	}

	svc := httpapi.Services{
		Users:        services.NewUserService(d, c),
		Verification: services.NewVerificationService(d, c),
		Profile:      services.NewProfileService(d),
	}

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		http:    httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, svc, codec, c.AccessTokenSecret, m, reg),
		sweeper: services.NewTokenSweeper(d),
	}, nil
}

// openStorage returns the repositories and transactor for the configured
// backend. db is nil for the memory backend.
func openStorage(ctx context.Context, c *config.Config, clock timex.Clock) (repomanager.RepositoryManager, dbx.Transactor, *sql.DB, error) {
	switch c.Storage {
	case StorageMemory:
		store := memory.NewStore(clock)
		rm := repomanager.NewInMemoryRepositoryManager(store)
		return rm, rm.Transactor(), nil, nil

	case StoragePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if c.RunMigrations {
			if err := rm.RunMigrations(ctx, db); err != nil {
				closeDB(db)
				return nil, nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return rm, dbx.NewSQLTransactor(db, nil), db, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func newMailer(ctx context.Context, c *config.Config, l logging.Logger) (mail.Dispatcher, error) {
	switch c.MailProvider {
	case MailLog:
		return mail.NewLogDispatcher(l), nil
	case MailSES:
		d, err := mail.NewSESDispatcher(ctx, mail.SESOptions{
			Region:          c.AWSRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			From:            c.MailFrom,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	case MailResend:
		if c.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend api key is not set")
		}
		return mail.NewResendDispatcher(c.ResendAPIKey, c.MailFrom), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", c.MailProvider)
	}
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// initSignalHandler cancels the app on SIGINT, SIGTERM or SIGQUIT. Its
// goroutine exits and stops signal delivery once ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer signal.Stop(sigs)

		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		logging.LogError(ctx, app.logger, "http server failed", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or the HTTP server
// fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "mail", app.config.MailProvider)

	var wg sync.WaitGroup

	app.initSignalHandler(ctx, cancelFunc, &wg)

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.TokenSweepInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.sweeper.Run(ctx, app.config.TokenSweepInterval)
		}()
	}

	wg.Wait()

	closeDB(app.db)
	app.logger.Info(context.Background(), "App stopped")
}
