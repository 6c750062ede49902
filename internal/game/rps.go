package game

import "party_trials/internal/logger"

// Rock-paper-scissors point awards.
const (
	RPSWinAward  = 5
	RPSLossAward = 1
)

// Valid throws.
const (
	ThrowRock     = "rock"
	ThrowPaper    = "paper"
	ThrowScissors = "scissors"
)

// beats maps each throw to the throw it defeats.
var beats = map[string]string{
	ThrowRock:     ThrowScissors,
	ThrowScissors: ThrowPaper,
	ThrowPaper:    ThrowRock,
}

type rpsMatch struct {
	a, b         string
	moveA, moveB string
	completed    bool
}

func (m *rpsMatch) has(id string) bool { return m.a == id || m.b == id }

// RockPaperScissors runs matchmaker-backed 1v1 RPS. A drawn round clears
// both moves and restarts the same pairing in place; there is no draw cap,
// resolution converges only probabilistically.
type RockPaperScissors struct {
	env        Env
	matchmaker *Matchmaker
	matches    []*rpsMatch
}

func NewRockPaperScissors(env Env) *RockPaperScissors {
	return &RockPaperScissors{env: env, matchmaker: NewMatchmaker(env)}
}

func (g *RockPaperScissors) Phase() Phase { return PhaseRPS }

func (g *RockPaperScissors) Start() {
	g.rematch()
}

func (g *RockPaperScissors) Stop() {}

func (g *RockPaperScissors) rematch() {
	g.matchmaker.Unpark()
	for _, pair := range g.matchmaker.Match() {
		m := &rpsMatch{a: pair.A.ID, b: pair.B.ID}
		g.matches = append(g.matches, m)
		logger.Info("rps match started", "player1", m.a, "player2", m.b)
		g.env.Broadcast.Broadcast(MsgRPSStarted, map[string]any{
			"player1": m.a,
			"player2": m.b,
		})
	}
}

func (g *RockPaperScissors) findMatch(playerID string) *rpsMatch {
	for _, m := range g.matches {
		if m.has(playerID) && !m.completed {
			return m
		}
	}
	return nil
}

func (g *RockPaperScissors) removeMatch(m *rpsMatch) {
	for i, cur := range g.matches {
		if cur == m {
			g.matches = append(g.matches[:i], g.matches[i+1:]...)
			return
		}
	}
}

func (g *RockPaperScissors) HandleCommand(playerID string, cmd Command) error {
	throw, ok := cmd.(Throw)
	if !ok {
		return ErrBadCommand
	}
	if _, valid := beats[throw.Move]; !valid {
		return ErrInvalidMove
	}

	m := g.findMatch(playerID)
	if m == nil {
		return ErrNoMatch
	}

	if m.a == playerID {
		m.moveA = throw.Move
	} else {
		m.moveB = throw.Move
	}

	if m.moveA == "" || m.moveB == "" {
		return nil // waiting for the other throw
	}

	if m.moveA == m.moveB {
		// draw: clear both moves and restart in place, same pairing
		m.moveA, m.moveB = "", ""
		g.env.Broadcast.Broadcast(MsgRPSDraw, map[string]any{"player1": m.a, "player2": m.b})
		g.env.Broadcast.Broadcast(MsgRPSRestart, map[string]any{"player1": m.a, "player2": m.b})
		return nil
	}

	winnerID, loserID := m.b, m.a
	if beats[m.moveA] == m.moveB {
		winnerID, loserID = m.a, m.b
	}
	g.resolve(m, winnerID, loserID)
	return nil
}

func (g *RockPaperScissors) resolve(m *rpsMatch, winnerID, loserID string) {
	m.completed = true

	if winner := g.env.Registry.Get(winnerID); winner != nil {
		winner.Award(RPSWinAward)
	}
	if loser := g.env.Registry.Get(loserID); loser != nil {
		loser.Award(RPSLossAward)
	}

	g.matchmaker.Release(g.env.Registry.Get(m.a))
	g.matchmaker.Release(g.env.Registry.Get(m.b))
	g.removeMatch(m)

	logger.Info("rps match completed", "winner", winnerID)
	g.env.Broadcast.Broadcast(MsgPointsUpdate, PointsPayload{Points: PointsSnapshot(g.env.Registry)})
	g.env.Broadcast.Broadcast(MsgRPSCompleted, map[string]any{
		"winner":  winnerID,
		"player1": m.a,
		"player2": m.b,
	})

	g.rematch()
}

func (g *RockPaperScissors) HandlePlayerJoin(playerID string) {
	g.rematch()
}

// HandlePlayerLeave forfeits the leaver's match; the opponent wins without a
// point change and returns to the pool.
func (g *RockPaperScissors) HandlePlayerLeave(playerID string) {
	m := g.findMatch(playerID)
	if m == nil {
		return
	}
	m.completed = true

	// only the survivor returns to the pool; the leaver is still in the
	// registry here and must not be re-paired
	winnerID := m.a
	if m.a == playerID {
		winnerID = m.b
	}
	g.matchmaker.Release(g.env.Registry.Get(winnerID))
	g.removeMatch(m)

	logger.Info("rps forfeit", "left", playerID, "winner", winnerID)
	g.env.Broadcast.Broadcast(MsgRPSCompleted, map[string]any{
		"winner":  winnerID,
		"player1": m.a,
		"player2": m.b,
		"reason":  "opponent_left",
	})

	g.rematch()
}

func (g *RockPaperScissors) RoundOver() bool { return false }

// ActiveMatches reports the number of unresolved matches.
func (g *RockPaperScissors) ActiveMatches() int {
	n := 0
	for _, m := range g.matches {
		if !m.completed {
			n++
		}
	}
	return n
}
