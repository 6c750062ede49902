package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func startRPS(t *testing.T, names ...string) (*RockPaperScissors, *Registry, *recorder) {
	t.Helper()
	env, reg, rec, _ := testEnv()
	for _, name := range names {
		reg.Add(name, name, "#fff")
	}
	g := NewRockPaperScissors(env)
	g.Start()
	return g, reg, rec
}

func TestRPSStartPairsPlayers(t *testing.T) {
	g, _, rec := startRPS(t, "a", "b")

	require.Equal(t, 1, g.ActiveMatches())

	started, ok := rec.last(MsgRPSStarted)
	require.True(t, ok)
	payload := started.Payload.(map[string]any)
	require.Equal(t, "a", payload["player1"])
	require.Equal(t, "b", payload["player2"])
}

func TestRPSResolution(t *testing.T) {
	cases := []struct {
		name         string
		moveA, moveB string
		winner       string
	}{
		{"rock blunts scissors", ThrowRock, ThrowScissors, "a"},
		{"scissors cut paper", ThrowScissors, ThrowPaper, "a"},
		{"paper wraps rock", ThrowPaper, ThrowRock, "a"},
		{"loss mirrors win", ThrowScissors, ThrowRock, "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, reg, rec := startRPS(t, "a", "b")

			require.NoError(t, g.HandleCommand("a", Throw{Move: tc.moveA}))
			require.NoError(t, g.HandleCommand("b", Throw{Move: tc.moveB}))

			loser := "b"
			if tc.winner == "b" {
				loser = "a"
			}
			require.Equal(t, RPSWinAward, reg.Get(tc.winner).Points)
			require.Equal(t, RPSLossAward, reg.Get(loser).Points)

			completed, ok := rec.last(MsgRPSCompleted)
			require.True(t, ok)
			require.Equal(t, tc.winner, completed.Payload.(map[string]any)["winner"])
		})
	}
}

func TestRPSFirstThrowWaitsForOpponent(t *testing.T) {
	g, reg, rec := startRPS(t, "a", "b")

	require.NoError(t, g.HandleCommand("a", Throw{Move: ThrowRock}))

	require.Equal(t, 1, g.ActiveMatches())
	require.Equal(t, 0, reg.Get("a").Points)
	require.Equal(t, 0, rec.count(MsgRPSCompleted))
}

func TestRPSDrawRestartsInPlace(t *testing.T) {
	g, reg, rec := startRPS(t, "a", "b")

	require.NoError(t, g.HandleCommand("a", Throw{Move: ThrowRock}))
	require.NoError(t, g.HandleCommand("b", Throw{Move: ThrowRock}))

	// same pairing, no points, both moves cleared
	require.Equal(t, 1, g.ActiveMatches())
	require.Equal(t, 0, reg.Get("a").Points)
	require.Equal(t, 0, reg.Get("b").Points)
	require.Equal(t, 1, rec.count(MsgRPSDraw))
	require.Equal(t, 1, rec.count(MsgRPSRestart))
	require.Equal(t, 1, rec.count(MsgRPSStarted), "a draw must not re-run matchmaking")

	// the rematch resolves normally
	require.NoError(t, g.HandleCommand("a", Throw{Move: ThrowPaper}))
	require.NoError(t, g.HandleCommand("b", Throw{Move: ThrowRock}))
	require.Equal(t, RPSWinAward, reg.Get("a").Points)
	require.Equal(t, RPSLossAward, reg.Get("b").Points)
}

func TestRPSInvalidThrow(t *testing.T) {
	g, _, _ := startRPS(t, "a", "b")

	require.ErrorIs(t, g.HandleCommand("a", Throw{Move: "lizard"}), ErrInvalidMove)
	require.ErrorIs(t, g.HandleCommand("ghost", Throw{Move: ThrowRock}), ErrNoMatch)
}

func TestRPSForfeitOnLeave(t *testing.T) {
	g, reg, rec := startRPS(t, "a", "b")

	require.NoError(t, g.HandleCommand("a", Throw{Move: ThrowRock}))
	g.HandlePlayerLeave("b")
	reg.Remove("b")

	completed, ok := rec.last(MsgRPSCompleted)
	require.True(t, ok)
	payload := completed.Payload.(map[string]any)
	require.Equal(t, "a", payload["winner"])
	require.Equal(t, "opponent_left", payload["reason"])

	// forfeit awards nothing and leaves the survivor idle
	require.Equal(t, 0, reg.Get("a").Points)
	require.Equal(t, 0, g.ActiveMatches())
	require.False(t, reg.Get("a").InGame)
}

func TestRPSLateJoinerPairsWithWaiting(t *testing.T) {
	g, reg, rec := startRPS(t, "a", "b", "c")

	require.True(t, reg.Get("c").WaitingForMatch)

	reg.Add("d", "d", "#fff")
	g.HandlePlayerJoin("d")

	require.Equal(t, 2, g.ActiveMatches())
	require.False(t, reg.Get("c").WaitingForMatch)
	require.Equal(t, 2, rec.count(MsgRPSStarted))
}
