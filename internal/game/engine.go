package game

import (
	"errors"
	"time"
)

// Illegal-move and missing-entity conditions. The coordinator logs these and
// drops the command; none of them is ever fatal to the session.
var (
	ErrUnknownPlayer  = errors.New("player not in session")
	ErrNoMatch        = errors.New("player has no active match")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrCellOutOfRange = errors.New("cell index out of range")
	ErrMatchComplete  = errors.New("match already completed")
	ErrInvalidMove    = errors.New("invalid move")
	ErrRoundOver      = errors.New("round already over")
	ErrBadCommand     = errors.New("command not valid for this game")
)

// Command is a decoded player action routed to the active engine.
type Command interface{ isCommand() }

// MoveForward is one rlgl_move press.
type MoveForward struct{}

// PlaceMark places the sender's mark at a tic-tac-toe cell (0..8).
type PlaceMark struct{ Index int }

// ResetBoard restarts the sender's tic-tac-toe match with the same pairing.
type ResetBoard struct{}

// Throw is a rock/paper/scissors move.
type Throw struct{ Move string }

// CompletePuzzle reports one client-side sliding-puzzle solve.
type CompletePuzzle struct{ ElapsedMs int64 }

// EndRound is the host's request to end the current round early.
type EndRound struct{}

func (MoveForward) isCommand()    {}
func (PlaceMark) isCommand()      {}
func (ResetBoard) isCommand()     {}
func (Throw) isCommand()          {}
func (CompletePuzzle) isCommand() {}
func (EndRound) isCommand()       {}

// CancelFunc stops a scheduled timer. Safe to call more than once.
type CancelFunc func()

// Scheduler runs callbacks serialized into the session's command queue.
// A timer firing is just another message the session actor processes, so
// timer effects and player effects are totally ordered. Cancelling prevents
// any further callback, including ones already queued.
type Scheduler interface {
	Every(d time.Duration, fn func()) CancelFunc
	After(d time.Duration, fn func()) CancelFunc
}

// Engine is one minigame's rules/state machine. Engines are constructed per
// phase, owned by a single session, and only ever called from that session's
// command loop, so they need no locking of their own.
type Engine interface {
	// Phase this engine serves.
	Phase() Phase

	// Start begins the engine's round: initial broadcasts, timers,
	// matchmaking. Called once, after transient player state is reset.
	Start()

	// Stop cancels every outstanding timer. Called exactly once when the
	// session transitions away or is disposed. After Stop a stale timer
	// must never mutate state.
	Stop()

	// HandleCommand applies one player action. Illegal or stale commands
	// return an error and leave state untouched.
	HandleCommand(playerID string, cmd Command) error

	// HandlePlayerJoin lets the engine react to a newcomer (adversarial
	// games re-run matchmaking).
	HandlePlayerJoin(playerID string)

	// HandlePlayerLeave resolves any in-flight match or finish-order slot
	// for the departing player. Called before the player is removed from
	// the registry.
	HandlePlayerLeave(playerID string)

	// RoundOver reports whether the engine considers its round finished.
	// The session still waits for an explicit host action to advance.
	RoundOver() bool
}

// Env bundles the collaborators every engine needs. All fields are owned by
// the session coordinator.
type Env struct {
	Registry  *Registry
	Broadcast Broadcaster
	Scheduler Scheduler
	TieBreak  TieBreak
}
