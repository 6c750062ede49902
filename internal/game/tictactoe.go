package game

import "party_trials/internal/logger"

// Tic-tac-toe point awards.
const (
	TTTWinAward  = 7
	TTTDrawAward = 4
	TTTLossAward = 0
)

// DrawSentinel marks a drawn match in winner fields.
const DrawSentinel = "draw"

// winningTriples are the 8 canonical three-in-a-row cell index sets.
var winningTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

type tttMatch struct {
	x, o      string // player ids; x always moves first
	board     [9]string
	turn      string // "X" or "O"
	completed bool
}

func newTTTMatch(x, o string) *tttMatch {
	return &tttMatch{x: x, o: o, turn: "X"}
}

func (m *tttMatch) has(id string) bool { return m.x == id || m.o == id }

func (m *tttMatch) mark(id string) string {
	if m.x == id {
		return "X"
	}
	return "O"
}

func (m *tttMatch) reset() {
	m.board = [9]string{}
	m.turn = "X"
	m.completed = false
}

// winner returns "X" or "O" when a triple is owned, "" otherwise.
func (m *tttMatch) winner() string {
	for _, t := range winningTriples {
		a, b, c := m.board[t[0]], m.board[t[1]], m.board[t[2]]
		if a != "" && a == b && a == c {
			return a
		}
	}
	return ""
}

func (m *tttMatch) full() bool {
	for _, cell := range m.board {
		if cell == "" {
			return false
		}
	}
	return true
}

// TicTacToe runs concurrent 1v1 matches fed by the matchmaker. A player id
// appears in at most one live match at a time.
type TicTacToe struct {
	env        Env
	matchmaker *Matchmaker
	matches    []*tttMatch
}

func NewTicTacToe(env Env) *TicTacToe {
	return &TicTacToe{env: env, matchmaker: NewMatchmaker(env)}
}

func (g *TicTacToe) Phase() Phase { return PhaseTicTacToe }

func (g *TicTacToe) Start() {
	g.rematch()
}

func (g *TicTacToe) Stop() {
	// no timers to cancel; matches simply stop being reachable
}

// rematch pairs every idle player into fresh matches.
func (g *TicTacToe) rematch() {
	g.matchmaker.Unpark()
	for _, pair := range g.matchmaker.Match() {
		m := newTTTMatch(pair.A.ID, pair.B.ID)
		g.matches = append(g.matches, m)
		logger.Info("tic-tac-toe match started", "x", m.x, "o", m.o)
		g.env.Broadcast.Broadcast(MsgTicTacToeStarted, map[string]any{
			"playerX": m.x,
			"playerO": m.o,
		})
	}
}

func (g *TicTacToe) findMatch(playerID string) *tttMatch {
	for _, m := range g.matches {
		if m.has(playerID) {
			return m
		}
	}
	return nil
}

func (g *TicTacToe) removeMatch(m *tttMatch) {
	for i, cur := range g.matches {
		if cur == m {
			g.matches = append(g.matches[:i], g.matches[i+1:]...)
			return
		}
	}
}

func (g *TicTacToe) HandleCommand(playerID string, cmd Command) error {
	switch c := cmd.(type) {
	case PlaceMark:
		return g.handleMove(playerID, c.Index)
	case ResetBoard:
		return g.handleReset(playerID)
	default:
		return ErrBadCommand
	}
}

func (g *TicTacToe) handleMove(playerID string, index int) error {
	m := g.findMatch(playerID)
	if m == nil {
		return ErrNoMatch
	}
	if m.completed {
		return ErrMatchComplete
	}
	if index < 0 || index >= len(m.board) {
		return ErrCellOutOfRange
	}
	if m.mark(playerID) != m.turn {
		return ErrNotYourTurn
	}
	if m.board[index] != "" {
		return ErrCellOccupied
	}

	m.board[index] = m.turn

	var result string
	switch {
	case m.winner() != "":
		m.completed = true
		if m.winner() == "X" {
			result = m.x
		} else {
			result = m.o
		}
	case m.full():
		m.completed = true
		result = DrawSentinel
	default:
		if m.turn == "X" {
			m.turn = "O"
		} else {
			m.turn = "X"
		}
	}

	g.env.Broadcast.Broadcast(MsgMoveMade, map[string]any{
		"board":       m.board,
		"currentTurn": m.turn,
		"playerX":     m.x,
		"playerO":     m.o,
	})

	if m.completed {
		g.resolve(m, result)
	}
	return nil
}

// resolve awards points, frees both participants and re-runs matchmaking.
// winnerID is a player id or the draw sentinel.
func (g *TicTacToe) resolve(m *tttMatch, winnerID string) {
	px, po := g.env.Registry.Get(m.x), g.env.Registry.Get(m.o)

	switch winnerID {
	case DrawSentinel:
		if px != nil {
			px.Award(TTTDrawAward)
		}
		if po != nil {
			po.Award(TTTDrawAward)
		}
	case m.x:
		if px != nil {
			px.Award(TTTWinAward)
		}
		if po != nil {
			po.Award(TTTLossAward)
		}
	default:
		if po != nil {
			po.Award(TTTWinAward)
		}
		if px != nil {
			px.Award(TTTLossAward)
		}
	}

	g.matchmaker.Release(px)
	g.matchmaker.Release(po)
	g.removeMatch(m)

	logger.Info("tic-tac-toe match completed", "winner", winnerID)
	g.env.Broadcast.Broadcast(MsgPointsUpdate, PointsPayload{Points: PointsSnapshot(g.env.Registry)})
	g.env.Broadcast.Broadcast(MsgGameCompleted, map[string]any{"winner": winnerID})

	g.rematch()
}

func (g *TicTacToe) handleReset(playerID string) error {
	m := g.findMatch(playerID)
	if m == nil {
		return ErrNoMatch
	}
	m.reset()
	g.env.Broadcast.Broadcast(MsgTicTacToeStarted, map[string]any{
		"playerX": m.x,
		"playerO": m.o,
	})
	return nil
}

func (g *TicTacToe) HandlePlayerJoin(playerID string) {
	g.rematch()
}

// HandlePlayerLeave forfeits the leaver's match: the remaining participant
// wins, no penalty either way beyond losing the match.
func (g *TicTacToe) HandlePlayerLeave(playerID string) {
	m := g.findMatch(playerID)
	if m == nil {
		return
	}
	m.completed = true

	// winner by forfeit; nobody's points change. Only the survivor goes back
	// to the pool: the leaver is still in the registry at this point and must
	// not be re-paired.
	winnerID := m.x
	if m.x == playerID {
		winnerID = m.o
	}
	g.matchmaker.Release(g.env.Registry.Get(winnerID))
	g.removeMatch(m)

	logger.Info("tic-tac-toe forfeit", "left", playerID, "winner", winnerID)
	g.env.Broadcast.Broadcast(MsgGameCompleted, map[string]any{
		"winner": winnerID,
		"reason": "opponent_left",
	})

	g.rematch()
}

func (g *TicTacToe) RoundOver() bool { return false }

// ActiveMatches reports the number of live matches (used by tests and the
// state snapshot).
func (g *TicTacToe) ActiveMatches() int { return len(g.matches) }
