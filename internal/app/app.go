package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	pb "github.com/godilite/cocina-grades/api/v1"
	"github.com/godilite/cocina-grades/internal/config"
	handler "github.com/godilite/cocina-grades/internal/grpc"
	"github.com/godilite/cocina-grades/internal/repository"
	"github.com/godilite/cocina-grades/internal/service"
	"github.com/godilite/cocina-grades/pkg/cache"
	dbbuilder "github.com/godilite/cocina-grades/pkg/database"
	grpcsrv "github.com/godilite/cocina-grades/pkg/grpc/server"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      handler.Cacher
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := ensureDataDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithJournalMode("WAL"),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	store := repository.NewDocumentStore(dbPool)
	if err := store.Migrate(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	var cacheClient handler.Cacher = cache.Nop{}
	if cfg.CacheEnabled() {
		redisCache, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
		)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacheClient = redisCache
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("REDIS_ADDR not set, report cache disabled")
	}

	roster := service.NewRosterService(store, logger)
	gradebook := service.NewGradebookService(store, logger)
	catalog := service.NewCatalogService(store, logger)
	backup := service.NewBackupService(store, roster, gradebook, logger)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
	)
	if err != nil {
		_ = cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	gradebookHandlers := handler.NewGradebookHandlers(gradebook, cacheClient, logger, cfg.CacheTTL)
	rosterHandlers := handler.NewRosterHandlers(roster, logger)
	catalogHandlers := handler.NewCatalogHandlers(catalog, logger)
	backupHandlers := handler.NewBackupHandlers(backup, logger)

	grpcServer.RegisterServiceWithHealth(pb.GradebookServiceName, func(s *grpc.Server) {
		pb.RegisterGradebookServer(s, gradebookHandlers)
	})
	grpcServer.RegisterServiceWithHealth(pb.RosterServiceName, func(s *grpc.Server) {
		pb.RegisterRosterServer(s, rosterHandlers)
	})
	grpcServer.RegisterServiceWithHealth(pb.CatalogServiceName, func(s *grpc.Server) {
		pb.RegisterCatalogServer(s, catalogHandlers)
	})
	grpcServer.RegisterServiceWithHealth(pb.BackupServiceName, func(s *grpc.Server) {
		pb.RegisterBackupServer(s, backupHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// ensureDataDir creates the directory holding a file database.
func ensureDataDir(dsn string) error {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Warn("gRPC shutdown did not complete in time", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("shutdown completed")
	_ = a.logger.Sync()
	return nil
}
