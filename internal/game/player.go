package game

// Player is the session-scoped record for one connected client. It is owned
// by the Registry; engines look players up by id and never copy them.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`

	Points          int  `json:"points"`
	Position        int  `json:"position"`
	PuzzlesDone     int  `json:"puzzles_completed"`
	InGame          bool `json:"in_game"`
	WaitingForMatch bool `json:"waiting_for_match"`
	FinishedRound   bool `json:"finished_round"`

	seq int // registration order, used for stable pairing and tie-breaks
}

// Award adds points for a single identified scoring rule.
func (p *Player) Award(n int) {
	p.Points += n
}

// Penalize subtracts points, never going below zero.
func (p *Player) Penalize(n int) {
	p.Points -= n
	if p.Points < 0 {
		p.Points = 0
	}
}

// ResetTransient clears per-round state. Cumulative points and the puzzle
// counter survive round transitions.
func (p *Player) ResetTransient() {
	p.Position = 0
	p.InGame = false
	p.WaitingForMatch = false
	p.FinishedRound = false
}

// Registry tracks the players of one session in registration order.
type Registry struct {
	players map[string]*Player
	order   []string
	nextSeq int
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Add registers a player. Re-adding an existing id is a no-op and returns
// the existing record.
func (r *Registry) Add(id, name, color string) *Player {
	if p, ok := r.players[id]; ok {
		return p
	}
	if name == "" {
		name = "Anonymous"
	}
	if color == "" {
		color = "#000000"
	}
	p := &Player{ID: id, Name: name, Color: color, seq: r.nextSeq}
	r.nextSeq++
	r.players[id] = p
	r.order = append(r.order, id)
	return p
}

// Remove deletes a player. Returns the removed record, or nil.
func (r *Registry) Remove(id string) *Player {
	p, ok := r.players[id]
	if !ok {
		return nil
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

func (r *Registry) Get(id string) *Player {
	return r.players[id]
}

func (r *Registry) Len() int {
	return len(r.players)
}

// All returns players in registration order.
func (r *Registry) All() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// Idle returns players available for matchmaking, in registration order.
func (r *Registry) Idle() []*Player {
	var out []*Player
	for _, p := range r.All() {
		if !p.InGame && !p.WaitingForMatch {
			out = append(out, p)
		}
	}
	return out
}

// First returns the earliest-registered player, or nil when empty. Used for
// host reassignment.
func (r *Registry) First() *Player {
	if len(r.order) == 0 {
		return nil
	}
	return r.players[r.order[0]]
}

// ResetTransient clears per-round state for every player.
func (r *Registry) ResetTransient() {
	for _, p := range r.players {
		p.ResetTransient()
	}
}
