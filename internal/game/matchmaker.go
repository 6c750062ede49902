package game

// Pair is two players matched into a 1v1 contest. A keeps the first-mover
// role (X in tic-tac-toe).
type Pair struct {
	A, B *Player
}

// Matchmaker pairs idle players for the adversarial minigames. It is a
// stable queue: players are paired two at a time in registration order, and
// a single leftover is parked as waiting rather than shuffled.
type Matchmaker struct {
	env Env
}

func NewMatchmaker(env Env) *Matchmaker {
	return &Matchmaker{env: env}
}

// Match pairs every idle player it can and returns the new pairs. At most
// one player is left over; that player is flagged WaitingForMatch and told
// so. Players already in a match or already waiting are untouched.
func (m *Matchmaker) Match() []Pair {
	idle := m.env.Registry.Idle()

	var pairs []Pair
	for len(idle) >= 2 {
		a, b := idle[0], idle[1]
		idle = idle[2:]

		a.InGame, b.InGame = true, true
		a.WaitingForMatch, b.WaitingForMatch = false, false
		pairs = append(pairs, Pair{A: a, B: b})
	}

	if len(idle) == 1 {
		leftover := idle[0]
		leftover.WaitingForMatch = true
		m.env.Broadcast.SendTo(leftover.ID, MsgWaitingForMatch, map[string]any{
			"playerId": leftover.ID,
		})
	}

	return pairs
}

// Release returns a player to the idle pool after their match resolved.
func (m *Matchmaker) Release(p *Player) {
	if p == nil {
		return
	}
	p.InGame = false
	p.WaitingForMatch = false
}

// Unpark clears the waiting flag so the player is considered on the next
// Match call (used when a waiting player's opponent pool changes).
func (m *Matchmaker) Unpark() {
	for _, p := range m.env.Registry.All() {
		if p.WaitingForMatch {
			p.WaitingForMatch = false
		}
	}
}
