package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-portal/api/swagger"
	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/docstore"
	"github.com/noah-isme/school-portal/internal/fallback"
	"github.com/noah-isme/school-portal/internal/middleware"
	"github.com/noah-isme/school-portal/internal/remote"
	"github.com/noah-isme/school-portal/internal/service"
	"github.com/noah-isme/school-portal/pkg/cache"
	"github.com/noah-isme/school-portal/pkg/config"
	"github.com/noah-isme/school-portal/pkg/database"
	"github.com/noah-isme/school-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal/pkg/middleware/requestid"
)

// @title School Portal Gateway
// @version 1.0.0
// @description CRUD gateway for the school portal dashboards with offline fallback
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, closeBackend, err := newFallbackBackend(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init fallback backend", "backend", cfg.Fallback.Backend, "error", err)
	}
	defer closeBackend()

	metrics := service.NewMetricsService()
	params := service.PortalParams{
		Upstream: remote.Config{
			BaseURL: cfg.Upstream.BaseURL,
			Timeout: cfg.Upstream.Timeout,
			Token:   cfg.Upstream.Token,
		},
		Backend: backend,
		Metrics: metrics,
		Logger:  logr,
		Strict:  cfg.Upstream.StrictClientErrors,
	}

	var applications *docstore.ApplicationRepository
	if cfg.Applications.Source == config.ApplicationsSourceMongo {
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect mongo", "error", err)
		}
		defer client.Disconnect(context.Background()) //nolint:errcheck
		applications = docstore.NewApplicationRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.ApplicationsCollection), logr)
		params.Applications = applications
	}

	portal := service.NewPortal(params)
	refresh := service.NewRefreshService(portal.Loaders(), metrics, logr, service.RefreshConfig{Workers: cfg.Refresh.Workers})
	refresh.Start(ctx)
	defer refresh.Stop()
	refresh.EnqueueAll()
	go refresh.RunEvery(ctx, cfg.Refresh.Interval)

	if applications != nil {
		go func() {
			err := applications.Watch(ctx, func(op string) {
				if _, err := refresh.Enqueue(catalog.Applications); err != nil {
					logr.Warn("failed to schedule applications refresh", zap.String("operation", op), zap.Error(err))
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logr.Warn("applications change stream stopped", zap.Error(err))
			}
		}()
	}

	deps := routeDeps{
		Prefix:    cfg.APIPrefix,
		Portal:    portal,
		Refresh:   refresh,
		Exports:   service.NewExportService(logr, nil, nil),
		Dashboard: service.NewDashboardService(portal, metrics, logr, service.DashboardServiceConfig{}),
		Metrics:   metrics,
		Logger:    logr,
	}
	if cfg.Auth.Enabled {
		deps.Verifier = service.NewAuthService(service.AuthConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})
	} else {
		logr.Warn("authentication disabled, every route is public")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	registerRoutes(r, deps)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL, "fallback", cfg.Fallback.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// newFallbackBackend opens the snapshot store selected by FALLBACK_BACKEND.
func newFallbackBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) (fallback.Backend, func(), error) {
	noop := func() {}
	switch cfg.Fallback.Backend {
	case "", config.FallbackMemory:
		return fallback.NewMemory(), noop, nil
	case config.FallbackFile:
		backend, err := fallback.NewFile(cfg.Fallback.Dir)
		if err != nil {
			return nil, noop, err
		}
		return backend, noop, nil
	case config.FallbackRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		backend := fallback.NewRedis(client, fallback.DefaultRedisPrefix)
		return backend, func() { _ = backend.Close() }, nil
	case config.FallbackPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		backend := fallback.NewPostgres(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logr.Info("fallback snapshots stored in postgres", zap.String("database", cfg.Database.Name))
		return backend, func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown fallback backend %q", cfg.Fallback.Backend)
	}
}
