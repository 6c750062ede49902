package game

import (
	"time"

	"party_trials/internal/logger"
)

// Light is the RLGL traffic light.
type Light string

const (
	LightRed   Light = "Red"
	LightGreen Light = "Green"
)

// RLGL tuning. Values are per-round fixed once the round starts.
const (
	RLGLFinishLine  = 500
	RLGLStep        = 50
	RLGLMoveAward   = 1
	RLGLRedPenalty  = 5
	rlglPlacePoints = 4 // finishers below third place
	rlglParticipate = 2 // players who never finished
)

// rlglPodium holds the placement bonuses for 1st, 2nd and 3rd.
var rlglPodium = [3]int{10, 8, 6}

// lightInterval returns the toggle period for a round; later rounds flip the
// light faster.
func lightInterval(round int) time.Duration {
	switch round {
	case 1:
		return 3000 * time.Millisecond
	case 2:
		return 2500 * time.Millisecond
	default:
		return 2000 * time.Millisecond
	}
}

// RedLightGreenLight runs one RLGL round: an automatic light toggle, player
// movement along a track, and placement scoring at round end.
type RedLightGreenLight struct {
	env   Env
	phase Phase
	round int

	light       Light
	finishOrder []string
	over        bool
	stopToggle  CancelFunc
}

func NewRedLightGreenLight(env Env, phase Phase) *RedLightGreenLight {
	round := phase.RLGLRound()
	if round == 0 {
		round = 1
	}
	return &RedLightGreenLight{
		env:   env,
		phase: phase,
		round: round,
		light: LightRed,
	}
}

func (g *RedLightGreenLight) Phase() Phase { return g.phase }

func (g *RedLightGreenLight) Start() {
	interval := lightInterval(g.round)
	logger.Info("rlgl round starting", "round", g.round, "interval", interval)

	g.env.Broadcast.Broadcast(MsgLightUpdate, map[string]any{"light": g.light})
	g.stopToggle = g.env.Scheduler.Every(interval, g.toggleLight)
}

func (g *RedLightGreenLight) Stop() {
	if g.stopToggle != nil {
		g.stopToggle()
		g.stopToggle = nil
	}
}

func (g *RedLightGreenLight) toggleLight() {
	if g.over {
		return
	}
	if g.light == LightRed {
		g.light = LightGreen
	} else {
		g.light = LightRed
	}
	g.env.Broadcast.Broadcast(MsgLightUpdate, map[string]any{"light": g.light})
}

func (g *RedLightGreenLight) HandleCommand(playerID string, cmd Command) error {
	switch cmd.(type) {
	case MoveForward:
		return g.handleMove(playerID)
	case EndRound:
		if g.over {
			return ErrRoundOver
		}
		g.endRound()
		return nil
	default:
		return ErrBadCommand
	}
}

func (g *RedLightGreenLight) handleMove(playerID string) error {
	if g.over {
		return ErrRoundOver
	}
	p := g.env.Registry.Get(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if p.FinishedRound {
		return nil // finished players idle at the line
	}

	if g.light == LightGreen {
		p.Position += RLGLStep
		p.Award(RLGLMoveAward)
		g.env.Broadcast.Broadcast(MsgPlayerUpdate, map[string]any{
			"id":       p.ID,
			"position": p.Position,
		})
		g.checkFinishLine(p)
	} else {
		// caught moving on red: back to the start, points never below zero
		p.Position = 0
		p.Penalize(RLGLRedPenalty)
		g.env.Broadcast.Broadcast(MsgPlayerUpdate, map[string]any{
			"id":       p.ID,
			"position": p.Position,
		})
		g.env.Broadcast.Broadcast(MsgPointsUpdate, PointsPayload{Points: PointsSnapshot(g.env.Registry)})
	}
	return nil
}

func (g *RedLightGreenLight) checkFinishLine(p *Player) {
	if p.Position < RLGLFinishLine || p.FinishedRound {
		return
	}
	p.FinishedRound = true
	g.finishOrder = append(g.finishOrder, p.ID)
	g.env.Broadcast.Broadcast(MsgPlayerFinished, map[string]any{
		"id":       p.ID,
		"position": len(g.finishOrder),
	})

	if len(g.finishOrder) == g.env.Registry.Len() {
		g.endRound()
	}
}

// endRound awards placement bonuses, stops the light and publishes the
// round podium. Transient positions reset; cumulative points do not.
func (g *RedLightGreenLight) endRound() {
	g.over = true
	g.Stop()

	for i, id := range g.finishOrder {
		p := g.env.Registry.Get(id)
		if p == nil {
			continue
		}
		if i < len(rlglPodium) {
			p.Award(rlglPodium[i])
		} else {
			p.Award(rlglPlacePoints)
		}
	}
	for _, p := range g.env.Registry.All() {
		if !p.FinishedRound {
			p.Award(rlglParticipate)
		}
	}

	podium := make([]string, 3)
	for i := 0; i < 3 && i < len(g.finishOrder); i++ {
		if p := g.env.Registry.Get(g.finishOrder[i]); p != nil {
			podium[i] = p.Name
		}
	}

	g.env.Broadcast.Broadcast(MsgPointsUpdate, PointsPayload{Points: PointsSnapshot(g.env.Registry)})
	g.env.Broadcast.Broadcast(MsgRoundOver, map[string]any{
		"round":      g.round,
		"winnerName": podium[0],
		"second":     podium[1],
		"third":      podium[2],
	})
	logger.Info("rlgl round over", "round", g.round, "finished", len(g.finishOrder))

	for _, p := range g.env.Registry.All() {
		p.Position = 0
	}
}

func (g *RedLightGreenLight) HandlePlayerJoin(playerID string) {
	// late joiners start at the line like everyone else; nothing to do
}

func (g *RedLightGreenLight) HandlePlayerLeave(playerID string) {
	for i, id := range g.finishOrder {
		if id == playerID {
			g.finishOrder = append(g.finishOrder[:i], g.finishOrder[i+1:]...)
			break
		}
	}
	if g.over {
		return
	}

	// the leave hook runs before registry removal, so the leaver still counts
	// toward Len(); exclude them when checking whether everyone left standing
	// has finished
	if p := g.env.Registry.Get(playerID); p != nil {
		p.FinishedRound = true // leavers earn no participation award
	}
	remaining := g.env.Registry.Len() - 1
	if remaining > 0 && len(g.finishOrder) == remaining {
		g.endRound()
	}
}

func (g *RedLightGreenLight) RoundOver() bool { return g.over }

// CurrentLight reports the light for state snapshots.
func (g *RedLightGreenLight) CurrentLight() Light { return g.light }
