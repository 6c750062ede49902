package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"party_trials/internal/game"
	"party_trials/internal/logger"
	"party_trials/internal/metrics"
	"party_trials/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxFrameSize = 4096
	outboxSize   = 256
)

// inboundFrame is the envelope clients send.
type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Client bridges one websocket connection to a session actor: inbound frames
// become inbox messages, and the session writes events into Send. The session
// owns Send's lifecycle and closes it when the player leaves.
type Client struct {
	PlayerID string
	Name     string
	Color    string

	Conn    *websocket.Conn
	Send    chan []byte
	Session *session.Session

	joined bool
	done   chan struct{}
}

func NewClient(playerID, name, color string, conn *websocket.Conn, sess *session.Session) *Client {
	return &Client{
		PlayerID: playerID,
		Name:     name,
		Color:    color,
		Conn:     conn,
		Send:     make(chan []byte, outboxSize),
		Session:  sess,
		done:     make(chan struct{}),
	}
}

// Run pumps the connection until it drops, then notifies the session.
func (c *Client) Run() {
	metrics.PlayersConnected.Inc()
	defer metrics.PlayersConnected.Dec()

	go c.writePump()
	c.readPump()
	<-c.done
}

func (c *Client) readPump() {
	defer func() {
		if c.joined {
			c.Session.Inbox() <- session.Leave{PlayerID: c.PlayerID}
		}
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "player", c.PlayerID, "error", err)
			return
		}
		c.dispatch(raw)
	}
}

// dispatch decodes one frame and forwards it to the session actor.
func (c *Client) dispatch(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		logger.Warn("bad frame", "player", c.PlayerID, "error", err)
		return
	}

	switch frame.Type {
	case game.MsgJoinLobby:
		// the token's identity wins over the frame, but an explicit
		// name/color in the payload overrides the defaults
		p := joinPayload{Name: c.Name, Color: c.Color}
		if len(frame.Payload) > 0 {
			_ = json.Unmarshal(frame.Payload, &p)
		}
		c.joined = true
		c.Session.Inbox() <- session.Join{
			PlayerID: c.PlayerID,
			Name:     p.Name,
			Color:    p.Color,
			Outbox:   c.Send,
		}
	case game.MsgLeaveLobby:
		c.joined = false
		c.Session.Inbox() <- session.Leave{PlayerID: c.PlayerID}
	default:
		c.Session.Inbox() <- session.ClientCmd{
			PlayerID: c.PlayerID,
			Event:    frame.Type,
			Payload:  frame.Payload,
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// session closed the outbox: player removed or room disposed
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "player", c.PlayerID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
