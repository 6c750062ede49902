package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"party_trials/internal/logger"
	"party_trials/internal/metrics"
)

// Hub maps room codes to live sessions. Sessions themselves are actors; the
// hub only guards the lookup table.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	created  map[string]time.Time

	ctx     context.Context
	cfg     Config
	history HistoryStore
}

func NewHub(ctx context.Context, cfg Config, history HistoryStore) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		created:  make(map[string]time.Time),
		ctx:      ctx,
		cfg:      cfg,
		history:  history,
	}
}

// NewRoomCode returns a short join code.
func NewRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Ensure returns the session for code, creating it if needed.
func (h *Hub) Ensure(code string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[code]; ok {
		return s
	}
	s := New(h.ctx, code, h.cfg, h.history)
	h.sessions[code] = s
	h.created[code] = time.Now()
	metrics.SessionsActive.Inc()
	logger.Info("session created", "room", code)
	return s
}

// Get returns the session for code, or nil.
func (h *Hub) Get(code string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[code]
}

// Remove shuts a session down and drops it from the table.
func (h *Hub) Remove(code string) {
	h.mu.Lock()
	s, ok := h.sessions[code]
	if ok {
		delete(h.sessions, code)
		delete(h.created, code)
	}
	h.mu.Unlock()

	if ok {
		s.Inbox() <- Shutdown{}
		metrics.SessionsActive.Dec()
		logger.Info("session removed", "room", code)
	}
}

// Codes lists the live room codes.
func (h *Hub) Codes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	codes := make([]string, 0, len(h.sessions))
	for code := range h.sessions {
		codes = append(codes, code)
	}
	return codes
}

// StartCleanup periodically disposes sessions that have been empty for over
// an hour.
func (h *Hub) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.ctx.Done():
				return
			case <-ticker.C:
				h.cleanupStale()
			}
		}
	}()
}

func (h *Hub) cleanupStale() {
	h.mu.RLock()
	var stale []string
	now := time.Now()
	for code, s := range h.sessions {
		if now.Sub(h.created[code]) < time.Hour {
			continue
		}
		reply := make(chan Snapshot, 1)
		select {
		case s.Inbox() <- GetState{Reply: reply}:
		default:
			continue
		}
		// bounded wait: a session whose loop already exited never replies,
		// and the sweep must not wedge the hub on it
		select {
		case snap := <-reply:
			if len(snap.Players) == 0 {
				stale = append(stale, code)
			}
		case <-time.After(time.Second):
		case <-h.ctx.Done():
		}
	}
	h.mu.RUnlock()

	for _, code := range stale {
		h.Remove(code)
		logger.Info("cleaned up stale session", "room", code)
	}
}
