package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"party_trials/internal/logger"
	"party_trials/internal/repository"
	"party_trials/internal/service"
	"party_trials/internal/session"
	"party_trials/internal/ws"
)

// Handler wires the HTTP surface to the session hub.
type Handler struct {
	Hub     *session.Hub
	History *repository.TournamentRepository // nil when persistence is off
}

func NewHandler(hub *session.Hub, history *repository.TournamentRepository) *Handler {
	return &Handler{Hub: hub, History: history}
}

type guestAuthRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GuestAuth issues a fresh connection-scoped identity and its token.
func (h *Handler) GuestAuth(c *gin.Context) {
	var req guestAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	id := service.Identity{
		PlayerID: uuid.NewString(),
		Name:     req.Name,
		Color:    req.Color,
	}
	token, err := service.GenerateGuestToken(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id": id.PlayerID,
		"token":     token,
	})
}

// CreateRoom mints a room code and spins up its session.
func (h *Handler) CreateRoom(c *gin.Context) {
	code := session.NewRoomCode()
	h.Hub.Ensure(code)
	c.JSON(http.StatusOK, gin.H{"room_id": code})
}

// ListRooms lists live room codes.
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Hub.Codes()})
}

// RoomState returns the read-only projection of one session. The snapshot is
// produced inside the session's command loop, so it is always consistent.
func (h *Handler) RoomState(c *gin.Context) {
	sess := h.Hub.Get(c.Param("code"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	reply := make(chan session.Snapshot, 1)
	sess.Inbox() <- session.GetState{Reply: reply}

	select {
	case snap := <-reply:
		c.JSON(http.StatusOK, snap)
	case <-c.Request.Context().Done():
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	}
}

// Leaderboard returns the ranked standings of one session.
func (h *Handler) Leaderboard(c *gin.Context) {
	sess := h.Hub.Get(c.Param("code"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	reply := make(chan session.Snapshot, 1)
	sess.Inbox() <- session.GetState{Reply: reply}

	select {
	case snap := <-reply:
		c.JSON(http.StatusOK, gin.H{"standings": snap.Standings})
	case <-c.Request.Context().Done():
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	}
}

// TournamentHistory lists recent finished tournaments.
func (h *Handler) TournamentHistory(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "history not configured"})
		return
	}
	recent, err := h.History.ListRecent(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": recent})
}

// WS upgrades the connection and attaches the client to its room's session.
func (h *Handler) WS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		id, err := service.ParseGuestToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		code := c.Query("room")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room required"})
			return
		}
		sess := h.Hub.Ensure(code)

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(id.PlayerID, id.Name, id.Color, conn, sess)
		go client.Run()
	}
}
