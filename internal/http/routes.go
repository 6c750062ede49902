package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"party_trials/internal/config"
	"party_trials/internal/http/handlers"
	"party_trials/internal/http/middleware"
	"party_trials/internal/repository"
	"party_trials/internal/session"
)

// RegisterRoutes sets up the whole HTTP surface: guest auth, room REST
// projections, and the websocket entry point.
func RegisterRoutes(r *gin.Engine, hub *session.Hub, db *pgxpool.Pool, cfg *config.Config, version string) {
	var history *repository.TournamentRepository
	if db != nil {
		history = repository.NewTournamentRepository(db)
	}

	h := handlers.NewHandler(hub, history)
	healthHandler := handlers.NewHealthHandler(db, version)

	// health checks, no rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	api.POST("/auth/guest", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.GuestAuth)

	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:code", h.RoomState)
	api.GET("/rooms/:code/leaderboard", h.Leaderboard)

	api.GET("/tournaments", h.TournamentHistory)

	// WebSocket game connection
	r.GET("/ws", h.WS())
}
