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

	"party_trials/internal/config"
	"party_trials/internal/db"
	"party_trials/internal/game"
	httpServer "party_trials/internal/http"
	"party_trials/internal/http/middleware"
	"party_trials/internal/logger"
	"party_trials/internal/repository"
	"party_trials/internal/service"
	"party_trials/internal/session"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	if dbPool != nil {
		defer dbPool.Close()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tieBreak := game.TieBreakJoinOrder
	if cfg.TieBreak == "name" {
		tieBreak = game.TieBreakName
	}

	var history session.HistoryStore
	if dbPool != nil {
		history = repository.NewTournamentRepository(dbPool)
	}

	hub := session.NewHub(ctx, session.Config{
		PuzzleDuration: cfg.PuzzleDuration,
		TieBreak:       tieBreak,
	}, history)
	hub.StartCleanup(10 * time.Minute)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, "", cfg.RedisDB)

	r := gin.Default()

	// CORS: the client is typically served from another origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer.RegisterRoutes(r, hub, dbPool, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	stop() // disposes every session and its timers

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
