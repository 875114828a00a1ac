package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pushp314/devconnect-contest-gateway/internal/cache"
	"github.com/pushp314/devconnect-contest-gateway/internal/config"
	"github.com/pushp314/devconnect-contest-gateway/internal/handlers"
	"github.com/pushp314/devconnect-contest-gateway/internal/middleware"
	"github.com/pushp314/devconnect-contest-gateway/internal/routes"
	"github.com/pushp314/devconnect-contest-gateway/internal/services"
	"github.com/pushp314/devconnect-contest-gateway/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	// Environment-based logger initialization (production = JSON, development = pretty)
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Str("upstream", config.AppConfig.UpstreamURL).Msg("Starting Contest Gateway...")

	// Set Gin mode based on environment
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Redis snapshot cache (optional; the gateway degrades without it)
	cache.Init()

	// 2. Wire the engine to the upstream judge
	upstream := services.NewUpstreamClient(
		config.AppConfig.UpstreamURL,
		time.Duration(config.AppConfig.UpstreamTimeout)*time.Second,
	)
	handlers.Init(upstream, services.SystemClock)

	// 3. Setup Router
	r := gin.New()

	// Middlewares
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// 4. Register Routes
	api := r.Group("/api")
	{
		routes.RegisterContestRoutes(api)
	}

	// Health check with upstream and redis status
	r.GET("/health", func(c *gin.Context) {
		upstreamStatus := "ok"
		redisStatus := "ok"

		if _, err := upstream.ListContests(c.Request.Context(), ""); err != nil {
			upstreamStatus = "error"
		}

		if cache.Available() {
			if _, err := cache.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if upstreamStatus != "ok" {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status":  status,
			"message": "Contest Gateway is running",
			"checks": gin.H{
				"upstream": upstreamStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 5. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}

	logger.Info().Msg("Server exited")
}
