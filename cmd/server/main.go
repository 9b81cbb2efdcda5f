package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/montasim/school-management-backend-sub003/api/handler"
	"github.com/montasim/school-management-backend-sub003/catalog"
	"github.com/montasim/school-management-backend-sub003/internal/config"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/ledger"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/monitor"
	pgInfra "github.com/montasim/school-management-backend-sub003/internal/infrastructure/postgres"
	redisInfra "github.com/montasim/school-management-backend-sub003/internal/infrastructure/redis"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/storage"
	"github.com/montasim/school-management-backend-sub003/internal/middleware"
	"github.com/montasim/school-management-backend-sub003/internal/router"
	"github.com/montasim/school-management-backend-sub003/internal/services"
	"github.com/montasim/school-management-backend-sub003/internal/services/lifecycle"
	"github.com/montasim/school-management-backend-sub003/pkg/httpcontext"
	"github.com/montasim/school-management-backend-sub003/pkg/logger"
	"github.com/montasim/school-management-backend-sub003/repository/postgres"
	resourceUC "github.com/montasim/school-management-backend-sub003/usecase/resource"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Name:     cfg.AppName,
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	ledgerDB, err := ledger.OpenDB(cfg.Ledger.Path)
	if err != nil {
		zapLogger.Fatal("failed to open ledger database", zap.Error(err))
	}
	manager.Register("ledger", func(ctx context.Context) error {
		return ledgerDB.Close()
	})

	book, err := ledger.New(ledgerDB)
	if err != nil {
		zapLogger.Fatal("failed to initialize upload ledger", zap.Error(err))
	}

	var fileStore storage.Store
	switch cfg.Storage.Driver {
	case "bolt":
		fileStore, err = storage.NewBolt(ledgerDB)
	default:
		fileStore, err = storage.NewDisk(cfg.Storage.Dir)
	}
	if err != nil {
		zapLogger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	mon := monitor.New(pool, redisClient, book, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sweeper := services.NewSweeper(book, zapLogger, services.SweeperConfig{
		Interval:  cfg.Ledger.SweepInterval,
		Retention: time.Duration(cfg.Ledger.RetentionHours) * time.Hour,
	})
	sweeper.Start()
	manager.Register("sweeper", func(ctx context.Context) error {
		sweeper.Stop()
		return nil
	})

	principals := postgres.NewPrincipalRepository(pool)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	defs := catalog.All()
	resources := make(map[string]*apiHandler.ResourceHandler, len(defs))
	for _, def := range defs {
		records := postgres.NewRecordRepository(pool, def.Collection)
		uc := resourceUC.New(def, records, principals, fileStore, book, zapLogger)
		resources[def.Name] = apiHandler.NewResourceHandler(uc, ctxAdapter, zapLogger)
	}

	var cache *middleware.ResponseCache
	if cfg.Cache.Enabled {
		cache = middleware.NewResponseCache(redisClient, cfg.Cache.TTL, zapLogger)
	}

	handler := router.New(defs, router.Options{
		Resources: resources,
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Files:     apiHandler.NewFileHandler(fileStore, ctxAdapter, zapLogger),
		Auth:      middleware.JWTAuth(cfg.JWT.Secret, zapLogger),
		Validate: func(def catalog.Definition) middleware.Middleware {
			return middleware.Validate(def.Schema, zapLogger)
		},
		Cache:      cache,
		Recover:    middleware.Recover(zapLogger),
		RequestLog: middleware.RequestLog(zapLogger),
	})

	server := &fasthttp.Server{
		Handler:            handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
