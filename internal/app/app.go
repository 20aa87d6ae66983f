package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewer-service/internal/config"
	"reviewer-service/internal/db"
	"reviewer-service/internal/handler"
	"reviewer-service/internal/logger"
	"reviewer-service/internal/repository"
	"reviewer-service/internal/repository/memory"
	"reviewer-service/internal/service/assignment"
	"reviewer-service/internal/service/pullrequest"
	"reviewer-service/internal/service/stats"
	"reviewer-service/internal/service/team"
	"reviewer-service/internal/service/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	serviceName     = "reviewer-service"
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// App is the main application structure
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	server *http.Server
}

// Storage is the set of repositories one backend provides
type Storage struct {
	Teams      repository.TeamRepository
	Users      repository.UserRepository
	PRs        repository.PRRepository
	Stats      repository.StatsRepository
	Transactor db.Transactioner
	Pinger     handler.Pinger
}

// NewMemoryStorage backs every repository with one in-memory store
func NewMemoryStorage() Storage {
	store := memory.NewStore()
	return Storage{
		Teams:      store,
		Users:      store,
		PRs:        store,
		Stats:      store,
		Transactor: store,
	}
}

// NewPostgresStorage builds the repositories over a connection pool
func NewPostgresStorage(pool *pgxpool.Pool, log *zap.Logger) Storage {
	ctxManager := db.NewContextManager(pool, log)
	return Storage{
		Teams:      repository.NewTeamRepository(ctxManager),
		Users:      repository.NewUserRepository(ctxManager),
		PRs:        repository.NewPRRepository(ctxManager),
		Stats:      repository.NewStatsRepository(ctxManager),
		Transactor: ctxManager,
		Pinger:     pool,
	}
}

// BuildHandlers wires services and handlers on top of st. openapiPath may be
// empty to disable the docs routes.
func BuildHandlers(st Storage, strategy *assignment.Strategy, log *zap.Logger, openapiPath string) Handlers {
	prService := pullrequest.NewService(st.PRs, st.Users, st.Transactor, strategy, log.Named("pullrequest"))
	teamService := team.NewService(st.Teams, st.Users, st.Transactor, log.Named("team"))
	userService := user.NewService(st.Users, st.Teams, st.PRs, st.Transactor, prService, log.Named("user"))
	statsService := stats.NewService(st.Stats, st.Transactor)

	h := Handlers{
		Team:   handler.NewTeamHandler(teamService, log),
		User:   handler.NewUserHandler(userService, log),
		PR:     handler.NewPRHandler(prService, log),
		Stats:  handler.NewStatsHandler(statsService, log),
		Health: handler.NewHealthHandler(st.Pinger, log),
	}
	if openapiPath != "" {
		h.Docs = handler.NewDocsHandler(openapiPath, log)
	}
	return h
}

// NewApp creates and configures the application
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(serviceName, cfg.Logger)
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, logger: log}

	var st Storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		st = NewMemoryStorage()
	default:
		pool, err := connectPostgres(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		app.pool = pool
		st = NewPostgresStorage(pool, log)
	}

	handlers := BuildHandlers(st, assignment.NewStrategy(), log, cfg.Docs.OpenAPIPath)

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      NewRouter(log, handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	dsn := cfg.Database.DSN()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse DB config", zap.Error(err))
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("Failed to create connection pool", zap.Error(err))
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			pool.Close()
			log.Error("Failed to ping database", zap.Error(err))
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
		}
		log.Warn("Database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(connectBackoff)
	}

	log.Info("Successfully connected to database")

	if cfg.Migrations.Enabled {
		if err := db.Migrate(dsn, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return pool, nil
}

// Run starts the application and blocks until SIGINT or SIGTERM
func (a *App) Run() error {
	defer func() {
		_ = a.logger.Sync()
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server",
			zap.String("address", a.server.Addr),
			zap.String("storage", a.cfg.Storage.Driver),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		a.logger.Error("HTTP server error", zap.Error(err))
		a.closePool()
		return err
	case <-quit:
	}

	a.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		a.closePool()
		return err
	}

	a.closePool()
	a.logger.Info("Server exited gracefully")
	return nil
}

func (a *App) closePool() {
	if a.pool == nil {
		return
	}
	a.pool.Close()
	a.logger.Info("Database connection pool closed")
}
