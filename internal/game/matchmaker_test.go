package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchmakerPairsInRegistrationOrder(t *testing.T) {
	env, reg, _, _ := testEnv()
	for _, id := range []string{"a", "b", "c", "d"} {
		reg.Add(id, id, "#fff")
	}

	pairs := NewMatchmaker(env).Match()

	require.Len(t, pairs, 2)
	require.Equal(t, "a", pairs[0].A.ID)
	require.Equal(t, "b", pairs[0].B.ID)
	require.Equal(t, "c", pairs[1].A.ID)
	require.Equal(t, "d", pairs[1].B.ID)
}

func TestMatchmakerAtMostOneWaiting(t *testing.T) {
	for n := 0; n <= 7; n++ {
		t.Run(fmt.Sprintf("players=%d", n), func(t *testing.T) {
			env, reg, rec, _ := testEnv()
			for i := 0; i < n; i++ {
				reg.Add(fmt.Sprintf("p%d", i), "p", "#fff")
			}

			pairs := NewMatchmaker(env).Match()

			require.Len(t, pairs, n/2)
			waiting := 0
			for _, p := range reg.All() {
				if p.WaitingForMatch {
					waiting++
					require.False(t, p.InGame)
				}
			}
			require.Equal(t, n%2, waiting)
			require.Equal(t, n%2, rec.count(MsgWaitingForMatch))
		})
	}
}

func TestMatchmakerSkipsBusyPlayers(t *testing.T) {
	env, reg, _, _ := testEnv()
	reg.Add("a", "a", "#fff")
	reg.Add("b", "b", "#fff")
	reg.Add("c", "c", "#fff")
	reg.Get("a").InGame = true

	pairs := NewMatchmaker(env).Match()

	require.Len(t, pairs, 1)
	require.Equal(t, "b", pairs[0].A.ID)
	require.Equal(t, "c", pairs[0].B.ID)
}

func TestMatchmakerReleaseAndUnpark(t *testing.T) {
	env, reg, rec, _ := testEnv()
	mm := NewMatchmaker(env)
	reg.Add("a", "a", "#fff")
	reg.Add("b", "b", "#fff")
	reg.Add("c", "c", "#fff")

	pairs := mm.Match()
	require.Len(t, pairs, 1)
	require.True(t, reg.Get("c").WaitingForMatch)

	// a waiting player is not re-told on subsequent passes
	require.Empty(t, mm.Match())
	require.Equal(t, 1, rec.count(MsgWaitingForMatch))

	// once a match resolves, unparking lets the waiter pair up
	mm.Release(reg.Get("a"))
	mm.Unpark()
	pairs = mm.Match()
	require.Len(t, pairs, 1)
	require.Equal(t, "a", pairs[0].A.ID)
	require.Equal(t, "c", pairs[0].B.ID)

	mm.Release(nil) // tolerated
}
