// Package server wires configuration, storage and services into the REST API
// and the gRPC health endpoint, and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/config"
	"github.com/dmitrijs2005/autodealer/internal/server/idempotency"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/autodealer/internal/server/rest"
	"github.com/dmitrijs2005/autodealer/internal/server/services"
	"github.com/dmitrijs2005/autodealer/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/autodealer/internal/server/grpc"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *redis.Client
	httpServer *rest.HTTPServer
	grpcServer *gs.GRPCServer
}

// OpenDB connects to PostgreSQL through the pgx driver and checks the
// connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if !strings.EqualFold(c.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db}
	if err := app.init(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	images, uploadDir, err := app.imageStore(ctx)
	if err != nil {
		return err
	}

	guard, err := app.checkoutGuard(ctx)
	if err != nil {
		return err
	}

	h := rest.NewHandler(rest.Deps{
		Users:         services.NewUserService(app.db, m, c),
		Cars:          services.NewCarService(app.db, m, images, app.logger),
		Bookings:      services.NewBookingService(app.db, m, guard, c, app.logger),
		SellRequests:  services.NewSellRequestService(app.db, m, app.logger),
		Stats:         services.NewStatsService(app.db, m),
		Images:        images,
		JWTSecret:     []byte(c.SecretKey),
		MaxUploadSize: c.MaxUploadSize,
	}, app.logger)

	router := h.Router(rest.RouterOptions{FrontendURL: c.FrontendURL, UploadDir: uploadDir})
	app.httpServer = rest.NewHTTPServer(c.HTTPAddr, router, app.logger)

	if c.GRPCHealthAddr != "" {
		app.grpcServer = gs.NewGRPCServer(c.GRPCHealthAddr, app.logger, app.db.PingContext)
	}
	return nil
}

// imageStore returns the configured store and, for the local backend, the
// directory to serve under /uploads.
func (app *App) imageStore(ctx context.Context) (storage.ImageStore, string, error) {
	c := app.config
	switch c.StorageBackend {
	case config.StorageLocal:
		s, err := storage.NewLocalStore(c.UploadDir, c.PublicBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("upload dir error: %w", err)
		}
		return s, s.Dir(), nil
	case config.StorageS3:
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			AccessKey:     c.S3RootUser,
			SecretKey:     c.S3RootPassword,
			Bucket:        c.S3Bucket,
			Region:        c.S3Region,
			BaseEndpoint:  c.S3BaseEndpoint,
			PublicBaseURL: c.PublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 init error: %w", err)
		}
		return s, "", nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func (app *App) checkoutGuard(ctx context.Context) (idempotency.Guard, error) {
	c := app.config
	if c.RedisAddr == "" {
		app.logger.Warn(ctx, "no redis configured, checkout locks are per process")
		return idempotency.NewMemoryGuard(), nil
	}

	client, err := idempotency.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.redis = client
	return idempotency.NewRedisGuard(client), nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancel()
			}
		}()
	}

	run("http", app.httpServer.Run)
	if app.grpcServer != nil {
		run("grpc", app.grpcServer.Run)
	}

	wg.Wait()
	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")

	return errors.Join(errs...)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close error", "error", err)
		}
	}
}
