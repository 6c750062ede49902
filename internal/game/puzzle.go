package game

import (
	"time"

	"party_trials/internal/logger"
)

// Sliding-puzzle scoring. The client owns shuffle/solve state; the server
// only records completions.
const (
	PuzzleAward       = 25
	PuzzleBonusAward  = 500
	PuzzleBonusTarget = 7

	DefaultPuzzleDuration = 300 * time.Second
)

// SlidingPuzzle runs the final round: a single global countdown, per-solve
// awards, and the overall tournament winner when time runs out.
type SlidingPuzzle struct {
	env      Env
	duration time.Duration

	over        bool
	stopTimeout CancelFunc
}

func NewSlidingPuzzle(env Env, duration time.Duration) *SlidingPuzzle {
	if duration <= 0 {
		duration = DefaultPuzzleDuration
	}
	return &SlidingPuzzle{env: env, duration: duration}
}

func (g *SlidingPuzzle) Phase() Phase { return PhaseFinalPuzzle }

func (g *SlidingPuzzle) Start() {
	logger.Info("final puzzle starting", "duration", g.duration)
	g.stopTimeout = g.env.Scheduler.After(g.duration, g.expire)
}

func (g *SlidingPuzzle) Stop() {
	if g.stopTimeout != nil {
		g.stopTimeout()
		g.stopTimeout = nil
	}
}

func (g *SlidingPuzzle) HandleCommand(playerID string, cmd Command) error {
	done, ok := cmd.(CompletePuzzle)
	if !ok {
		return ErrBadCommand
	}
	if g.over {
		return ErrRoundOver
	}
	p := g.env.Registry.Get(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}

	p.PuzzlesDone++
	p.Award(PuzzleAward)
	if p.PuzzlesDone == PuzzleBonusTarget {
		p.Award(PuzzleBonusAward)
	}

	logger.Debug("puzzle completed", "player", playerID,
		"total", p.PuzzlesDone, "elapsed_ms", done.ElapsedMs)
	g.env.Broadcast.Broadcast(MsgPuzzleComplete, map[string]any{
		"id":               p.ID,
		"puzzlesCompleted": p.PuzzlesDone,
		"elapsedTimeMs":    done.ElapsedMs,
	})
	g.env.Broadcast.Broadcast(MsgPointsUpdate, PointsPayload{Points: PointsSnapshot(g.env.Registry)})
	return nil
}

// expire fires once when the countdown runs out: the round ends for everyone
// regardless of progress and the overall winner is decided by total points.
func (g *SlidingPuzzle) expire() {
	if g.over {
		return
	}
	g.over = true

	winner := Winner(g.env.Registry, g.env.TieBreak)
	if winner == nil {
		logger.Warn("final puzzle expired with no players")
		return
	}
	logger.Info("final puzzle over", "winner", winner.Name, "points", winner.Points)
	g.env.Broadcast.Broadcast(MsgGameOver, map[string]any{
		"winnerName":  winner.Name,
		"totalPoints": winner.Points,
	})
}

func (g *SlidingPuzzle) HandlePlayerJoin(playerID string)  {}
func (g *SlidingPuzzle) HandlePlayerLeave(playerID string) {}

func (g *SlidingPuzzle) RoundOver() bool { return g.over }
