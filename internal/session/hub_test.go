package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, Config{}, nil)
}

func TestNewRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewRoomCode()
		require.Len(t, code, 8)
		require.Equal(t, strings.ToUpper(code), code)
		require.False(t, seen[code], "codes should not repeat")
		seen[code] = true
	}
}

func TestHubEnsureIsIdempotent(t *testing.T) {
	h := newTestHub(t)

	s1 := h.Ensure("ABCD1234")
	s2 := h.Ensure("ABCD1234")
	require.Same(t, s1, s2)
	require.Same(t, s1, h.Get("ABCD1234"))
	require.Equal(t, []string{"ABCD1234"}, h.Codes())

	require.Nil(t, h.Get("NOPE"))
}

func TestHubRemoveShutsSessionDown(t *testing.T) {
	h := newTestHub(t)
	s := h.Ensure("ABCD1234")

	outbox := make(chan []byte, 64)
	s.Inbox() <- Join{PlayerID: "a", Name: "ana", Color: "#fff", Outbox: outbox}

	h.Remove("ABCD1234")
	require.Nil(t, h.Get("ABCD1234"))
	require.Empty(t, h.Codes())

	// removal disposes the session, which closes client outboxes
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-outbox:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("session not disposed on remove")
		}
	}
}

func TestHubRemoveUnknownCodeIsNoOp(t *testing.T) {
	h := newTestHub(t)
	h.Remove("MISSING")
}

func TestHubCleanupKeepsFreshSessions(t *testing.T) {
	h := newTestHub(t)
	h.Ensure("FRESH123")

	h.cleanupStale()
	require.NotNil(t, h.Get("FRESH123"))
}

func TestHubCleanupSurvivesDeadSession(t *testing.T) {
	h := newTestHub(t)
	s := h.Ensure("DEADROOM")

	// stop the session loop directly, bypassing Remove, and wait until the
	// outbox close confirms dispose ran
	outbox := make(chan []byte, 64)
	s.Inbox() <- Join{PlayerID: "a", Name: "ana", Color: "#fff", Outbox: outbox}
	s.Inbox() <- Shutdown{}
	deadline := time.After(2 * time.Second)
	for open := true; open; {
		select {
		case _, ok := <-outbox:
			open = ok
		case <-deadline:
			t.Fatal("session did not dispose")
		}
	}

	h.mu.Lock()
	h.created["DEADROOM"] = time.Now().Add(-2 * time.Hour)
	h.mu.Unlock()

	// the probe gets no reply; the sweep must give up rather than block
	done := make(chan struct{})
	go func() {
		h.cleanupStale()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup wedged on a dead session")
	}
}

func TestHubCleanupDropsOldEmptySessions(t *testing.T) {
	h := newTestHub(t)
	h.Ensure("OLDEMPTY")
	occupied := h.Ensure("OLDBUSY1")

	outbox := make(chan []byte, 64)
	occupied.Inbox() <- Join{PlayerID: "a", Name: "ana", Color: "#fff", Outbox: outbox}
	// barrier so the join has landed before the probe
	reply := make(chan Snapshot, 1)
	occupied.Inbox() <- GetState{Reply: reply}
	<-reply

	h.mu.Lock()
	h.created["OLDEMPTY"] = time.Now().Add(-2 * time.Hour)
	h.created["OLDBUSY1"] = time.Now().Add(-2 * time.Hour)
	h.mu.Unlock()

	h.cleanupStale()

	require.Nil(t, h.Get("OLDEMPTY"))
	require.Same(t, occupied, h.Get("OLDBUSY1"))
}
