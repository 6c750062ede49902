package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerPenalizeFloorsAtZero(t *testing.T) {
	p := &Player{Points: 3}
	p.Penalize(5)
	require.Equal(t, 0, p.Points)

	p.Award(10)
	p.Penalize(5)
	require.Equal(t, 5, p.Points)
}

func TestRegistryDefaultsAndReAdd(t *testing.T) {
	reg := NewRegistry()

	p := reg.Add("a", "", "")
	require.Equal(t, "Anonymous", p.Name)
	require.Equal(t, "#000000", p.Color)

	// re-adding the same id keeps the original record
	p.Points = 7
	same := reg.Add("a", "other", "#123")
	require.Same(t, p, same)
	require.Equal(t, 7, same.Points)
	require.Equal(t, 1, reg.Len())
}

func TestRegistryOrderSurvivesRemoval(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a", "a", "#fff")
	reg.Add("b", "b", "#fff")
	reg.Add("c", "c", "#fff")

	require.Equal(t, "a", reg.First().ID)
	require.NotNil(t, reg.Remove("a"))
	require.Nil(t, reg.Remove("a"))

	all := reg.All()
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "c", all[1].ID)
	require.Equal(t, "b", reg.First().ID)

	reg.Remove("b")
	reg.Remove("c")
	require.Nil(t, reg.First())
}

func TestRegistryResetTransientKeepsTotals(t *testing.T) {
	reg := NewRegistry()
	p := reg.Add("a", "a", "#fff")
	p.Points = 40
	p.PuzzlesDone = 2
	p.Position = 350
	p.InGame = true
	p.WaitingForMatch = true
	p.FinishedRound = true

	reg.ResetTransient()

	require.Equal(t, 40, p.Points)
	require.Equal(t, 2, p.PuzzlesDone)
	require.Equal(t, 0, p.Position)
	require.False(t, p.InGame)
	require.False(t, p.WaitingForMatch)
	require.False(t, p.FinishedRound)
}
