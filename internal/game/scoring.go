package game

import "sort"

// TieBreak orders two players with equal points. The final-round tie-break
// is deliberately pluggable; registration order is the default.
type TieBreak func(a, b *Player) bool

// TieBreakJoinOrder prefers the earlier-registered player.
func TieBreakJoinOrder(a, b *Player) bool {
	return a.seq < b.seq
}

// TieBreakName prefers the lexicographically smaller display name.
func TieBreakName(a, b *Player) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.seq < b.seq
}

// Standing is one row of the leaderboard.
type Standing struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points int    `json:"points"`
}

// Standings ranks all players by points, descending. Equal totals share the
// relative order given by tb (players with the same points still get distinct
// ranks; the leaderboard is a strict ordering).
func Standings(reg *Registry, tb TieBreak) []Standing {
	if tb == nil {
		tb = TieBreakJoinOrder
	}
	players := reg.All()
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Points != players[j].Points {
			return players[i].Points > players[j].Points
		}
		return tb(players[i], players[j])
	})

	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{
			Rank:   i + 1,
			ID:     p.ID,
			Name:   p.Name,
			Color:  p.Color,
			Points: p.Points,
		}
	}
	return out
}

// Winner returns the top-ranked player, or nil for an empty registry.
func Winner(reg *Registry, tb TieBreak) *Player {
	st := Standings(reg, tb)
	if len(st) == 0 {
		return nil
	}
	return reg.Get(st[0].ID)
}

// PointsSnapshot is the points_update projection: id -> cumulative points.
func PointsSnapshot(reg *Registry) map[string]int {
	points := make(map[string]int, reg.Len())
	for _, p := range reg.All() {
		points[p.ID] = p.Points
	}
	return points
}
