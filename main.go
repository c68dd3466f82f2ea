package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitecms/api/analytics"
	"sitecms/api/config"
	"sitecms/api/database"
	"sitecms/api/handlers"
	"sitecms/api/logging"
	"sitecms/api/middleware"
	"sitecms/api/store"
	"sitecms/api/utils"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	dbClient, err := database.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize PostgreSQL")
	}
	defer dbClient.Close()
	if err := dbClient.EnsureSchema(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to prepare PostgreSQL schema")
	}

	var activityLog store.ActivityLog
	switch cfg.EventStore {
	case config.EventStoreClickHouse:
		chClient, err := database.NewClickHouseDB(ctx, cfg.ClickHouse)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize ClickHouse")
		}
		defer chClient.Close()
		if err := chClient.EnsureSchema(ctx); err != nil {
			logging.Fatal().Err(err).Msg("failed to prepare ClickHouse schema")
		}
		activityLog = store.NewClickHouseActivityStore(chClient)
	default:
		activityLog = store.NewPostgresActivityStore(dbClient.DB)
	}

	var cache analytics.SummaryCache
	redisClient, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logging.Warn().Err(err).Msg("summary cache disabled")
	} else if redisClient != nil {
		defer redisClient.Close()
		cache = store.NewRedisSummaryCache(redisClient, cfg.Analytics.CacheTTL)
	}

	engine := analytics.NewEngine(activityLog, store.NewPageStore(dbClient.DB), cfg.EngineOptions())
	analyticsService := analytics.NewService(engine, cache)

	jwtManager := utils.NewJWTManager(cfg.Auth.JWTSecret, tokenTTL)
	if cfg.Auth.JWTSecret == "" {
		logging.Warn().Msg("JWT_SECRET_KEY is not set; admin login is disabled")
	}

	authHandlers := handlers.NewAuthHandlers(store.NewAdminStore(dbClient.DB), jwtManager, cfg.Server.GinMode == gin.ReleaseMode)
	activityHandlers := handlers.NewActivityHandlers(activityLog, analyticsService)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsService)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware(cfg.Server.FEOrigin))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)
		api.POST("/track", middleware.OptionalAuth(jwtManager), activityHandlers.TrackEvent)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(jwtManager, cfg.Auth.APIKey))
		{
			protected.POST("/signup", authHandlers.Signup)

			stats := protected.Group("/stats")
			{
				stats.GET("/summary", analyticsHandlers.GetSummary)
				stats.GET("/sessions", analyticsHandlers.GetSessions)
			}
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("event_store", cfg.EventStore).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("API server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}
	logging.Info().Msg("server exiting")
}
