package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/cps-portal-api/api/swagger"
	"github.com/noah-isme/cps-portal-api/internal/handler"
	"github.com/noah-isme/cps-portal-api/internal/middleware"
	"github.com/noah-isme/cps-portal-api/internal/repository"
	"github.com/noah-isme/cps-portal-api/internal/seed"
	"github.com/noah-isme/cps-portal-api/internal/service"
	"github.com/noah-isme/cps-portal-api/pkg/config"
	"github.com/noah-isme/cps-portal-api/pkg/database"
	"github.com/noah-isme/cps-portal-api/pkg/kvstore"
	"github.com/noah-isme/cps-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cps-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cps-portal-api/pkg/middleware/requestid"
)

// @title CPS Portal API
// @version 1.0.0
// @description Faculty activity, leave and timetable approvals
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	metricsSvc := service.NewMetricsService()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init store", "backend", cfg.Store.Backend, "error", err)
	}
	if cfg.Metrics.Enabled {
		store = metricsSvc.InstrumentStore(store)
	}

	seedUsers, err := seed.Users()
	if err != nil {
		logr.Sugar().Fatalw("failed to build seed users", "error", err)
	}

	userRepo, err := repository.NewUserRepository(ctx, store, logr, seedUsers)
	if err != nil {
		logr.Sugar().Fatalw("failed to init user repository", "error", err)
	}
	cpsRepo, err := repository.NewCPSRepository(ctx, store, logr, seed.CPSEntries())
	if err != nil {
		logr.Sugar().Fatalw("failed to init cps repository", "error", err)
	}
	leaveRepo, err := repository.NewLeaveRepository(ctx, store, logr, seed.LeaveEntries())
	if err != nil {
		logr.Sugar().Fatalw("failed to init leave repository", "error", err)
	}
	ttRepo, err := repository.NewTimetableRepository(ctx, store, logr, seed.Timetables())
	if err != nil {
		logr.Sugar().Fatalw("failed to init timetable repository", "error", err)
	}

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	cpsSvc := service.NewCPSService(cpsRepo, nil, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, nil, logr)
	ttSvc := service.NewTimetableService(ttRepo, nil, logr, cfg.Approvals.FacultyThreshold)
	dashSvc := service.NewDashboardService(cpsRepo, leaveRepo, ttRepo, logr)
	exportSvc := service.NewExportService(cpsRepo, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		CPS:       handler.NewCPSHandler(cpsSvc),
		Leave:     handler.NewLeaveHandler(leaveSvc),
		Timetable: handler.NewTimetableHandler(ttSvc),
		Dashboard: handler.NewDashboardHandler(dashSvc),
		Export:    handler.NewExportHandler(exportSvc),
	}, handler.RouteOptions{
		DashboardEnabled: cfg.Dashboard.Enabled,
		ExportsEnabled:   cfg.Exports.Enabled,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"store", cfg.Store.Backend,
		"api_prefix", cfg.APIPrefix,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newStore builds the persistence backend selected by STORE_BACKEND.
func newStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return kvstore.NewMemory(), nil
	case config.StoreBackendFile:
		return kvstore.NewFile(cfg.Store.DataDir)
	case config.StoreBackendRedis:
		return kvstore.NewRedis(cfg.Redis)
	case config.StoreBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := kvstore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
