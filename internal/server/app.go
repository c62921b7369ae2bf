// Package server wires the auth service together: storage, password
// hashing, token codec, HTTP endpoint and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/soupauth/internal/logging"
	"github.com/dmitrijs2005/soupauth/internal/server/auth"
	"github.com/dmitrijs2005/soupauth/internal/server/config"
	"github.com/dmitrijs2005/soupauth/internal/server/httpapi"
	"github.com/dmitrijs2005/soupauth/internal/server/metrics"
	"github.com/dmitrijs2005/soupauth/internal/server/password"
	"github.com/dmitrijs2005/soupauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/soupauth/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

// openPostgres is a seam for tests.
var openPostgres = repomanager.OpenPostgres

// NewApp builds every component from c. Logs go to w as JSON. With the
// postgres store the database is opened and migrated here.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(w, c.LogLevel)

	var (
		rm repomanager.RepositoryManager
		db *sql.DB
	)
	switch c.Store {
	case config.StoreMemory:
		rm = repomanager.NewMemoryRepositoryManager()
	case config.StorePostgres:
		var err error
		db, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}

	hasher, err := password.New(c)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	us, err := services.NewUserService(rm.Users(db), hasher, logger, rec)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	codec := auth.NewCodec([]byte(c.SecretKey), c.Issuer)
	ss := services.NewSessionService(codec, c, logger, rec)

	srv := httpapi.NewServer(c.ListenAddr, logger, httpapi.Deps{
		Users:    us,
		Sessions: ss,
		Tokens:   codec,
		Metrics:  metrics.Handler(reg),
	})

	return &App{config: c, logger: logger, db: db, http: srv}, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.Store, "password_scheme", app.config.PasswordScheme)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	closeDB(app.db)
	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
