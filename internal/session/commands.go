package session

import (
	"encoding/json"

	"party_trials/internal/game"
)

// Msg is anything the session actor processes through its inbox. Player
// actions, lifecycle changes and timer firings all arrive this way, one at a
// time, which is what makes the session race-free by construction.
type Msg interface{ isSessionMsg() }

// Join registers a player. Outbox is where this client receives events; the
// session never blocks on it.
type Join struct {
	PlayerID string
	Name     string
	Color    string
	Outbox   chan []byte
}

// Leave removes a player (explicit leave_lobby or transport disconnect).
type Leave struct {
	PlayerID string
}

// ClientCmd is a raw inbound event from one client, decoded and routed by
// the session.
type ClientCmd struct {
	PlayerID string
	Event    string
	Payload  json.RawMessage
}

// GetState asks for a consistent read-only snapshot. Used by the HTTP
// projections and by tests; the reply is sent from inside the loop so it can
// never observe a torn state.
type GetState struct {
	Reply chan Snapshot
}

// Shutdown disposes the session: timers cancelled, outboxes closed.
type Shutdown struct{}

// timerFired carries a due timer callback back into the command queue.
type timerFired struct {
	t *timer
}

func (Join) isSessionMsg()       {}
func (Leave) isSessionMsg()      {}
func (ClientCmd) isSessionMsg()  {}
func (GetState) isSessionMsg()   {}
func (Shutdown) isSessionMsg()   {}
func (timerFired) isSessionMsg() {}

// Envelope is the wire frame for every event pushed to clients.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Snapshot is the read-only projection of session state replicated to
// clients (state_sync) and exposed over HTTP.
type Snapshot struct {
	Version   int             `json:"version"`
	RoomID    string          `json:"room_id"`
	Phase     game.Phase      `json:"phase"`
	Round     int             `json:"round"`
	HostID    string          `json:"host_id"`
	Light     game.Light      `json:"light,omitempty"`
	Players   []game.Player   `json:"players"`
	Standings []game.Standing `json:"standings"`
}

// payload shapes for inbound commands
type changeGamePayload struct {
	Phase string `json:"phase"`
}

type movePayload struct {
	Index int `json:"index"`
}

type rpsMovePayload struct {
	Move string `json:"move"`
}

type completePuzzlePayload struct {
	ElapsedTimeMs int64 `json:"elapsedTimeMs"`
}
