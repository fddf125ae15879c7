package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lineuplogic/lineuplogic/internal/api"
	"github.com/lineuplogic/lineuplogic/internal/api/middleware"
	"github.com/lineuplogic/lineuplogic/internal/fantasy"
	"github.com/lineuplogic/lineuplogic/internal/providers"
	"github.com/lineuplogic/lineuplogic/internal/services"
	"github.com/lineuplogic/lineuplogic/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis for upstream response caching. The API stays up
	// without it; league calls just hit ESPN every time.
	var responseCache providers.CacheProvider
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logrus.Warnf("Invalid Redis URL, running without response cache: %v", err)
	} else {
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unreachable, running without response cache: %v", err)
			redisClient.Close()
		} else {
			defer redisClient.Close()
			responseCache = services.NewCacheService(redisClient)
		}
	}

	// Initialize providers
	leagueClient := providers.NewESPNLeagueClient(providers.ESPNLeagueConfig{
		LeagueID:  cfg.ESPNLeagueID,
		Season:    cfg.ESPNSeason,
		SWID:      cfg.SWID,
		ESPNS2:    cfg.ESPNS2,
		Timeout:   cfg.ExternalAPITimeout,
		RateLimit: cfg.ESPNRateLimit,
		CacheTTL:  cfg.LeagueTTL(),
	}, responseCache, logrus.StandardLogger())
	scoreboard := providers.NewScoreboardClient(cfg.ScoreboardTimeout, logrus.StandardLogger())

	// The schedule cache refreshes lazily inside whichever request first
	// finds it stale; there is no background scheduler.
	scheduleCache := services.NewTeamScheduleCache(scoreboard, cfg.ScheduleTTL(), cfg.ScoreboardTimeout, logrus.StandardLogger())
	resolver := fantasy.NewResolver(scheduleCache)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Routes live at the root, not under a version prefix; the static UI
	// below must not shadow them.
	api.SetupRoutes(router.Group(""), leagueClient, resolver, cfg)

	// Serve the static UI when present; API routes take precedence.
	if info, err := os.Stat(cfg.WebDir); err == nil && info.IsDir() {
		router.Static("/static", cfg.WebDir)
		router.StaticFile("/", filepath.Join(cfg.WebDir, "index.html"))
	}

	// Setup server
	// WriteTimeout must cover a worst-case lazy schedule refresh: one
	// sequential scoreboard call per day in the window.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
