package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhartmann/jeopardy-backend/internal/room"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, nil)
}

func ensureRoom(t *testing.T, h *Hub, key string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Key: key, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for room")
		return nil // unreachable
	}
}

func getRoom(t *testing.T, h *Hub, key string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Key: key, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for room")
		return nil // unreachable
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "quiz", want: "QUIZ"},
		{in: "  quiz night  ", want: "QUIZ NIGHT"},
		{in: "ALREADY", want: "ALREADY"},
		{in: "", want: DefaultRoomKey},
		{in: "   ", want: DefaultRoomKey},
	}

	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEnsureRoom_IdempotentAcrossSpellings(t *testing.T) {
	h := newTestHub(t)

	rm1 := ensureRoom(t, h, "quiz")
	rm2 := ensureRoom(t, h, "  QUIZ ")

	require.NotNil(t, rm1)
	require.Same(t, rm1, rm2)
	require.Equal(t, "QUIZ", rm1.Key())
}

func TestGetRoom_NilForUnknownKey(t *testing.T) {
	h := newTestHub(t)
	require.Nil(t, getRoom(t, h, "NOPE"))
}

func TestRemoveRoom_NextEnsureCreatesFreshRoom(t *testing.T) {
	h := newTestHub(t)

	rm1 := ensureRoom(t, h, "quiz")
	h.Inbox() <- RemoveRoom{Key: "quiz"}

	require.Eventually(t, func() bool {
		return getRoom(t, h, "quiz") == nil
	}, time.Second, 10*time.Millisecond)

	rm2 := ensureRoom(t, h, "quiz")
	require.NotSame(t, rm1, rm2)
}

// A room whose last participant leaves removes itself from the registry, and
// a later join with the same key gets a fresh game state.
func TestEmptyRoom_SelfRemoves(t *testing.T) {
	h := newTestHub(t)
	rm := ensureRoom(t, h, "quiz")

	out := make(chan room.Event, 16)
	rm.Inbox() <- room.Join{ClientID: "c1", Role: room.RoleHost, DisplayName: "Host", Outbox: out}
	rm.Inbox() <- room.Leave{ClientID: "c1"}

	require.Eventually(t, func() bool {
		return getRoom(t, h, "quiz") == nil
	}, time.Second, 10*time.Millisecond)
}

// A join landing after self-removal must reach a live room that answers it,
// never a shut-down room that swallows the join.
func TestRejoinAfterSelfRemove_ReachesLiveRoom(t *testing.T) {
	h := newTestHub(t)
	rm1 := ensureRoom(t, h, "quiz")

	out1 := make(chan room.Event, 16)
	rm1.Inbox() <- room.Join{ClientID: "c1", Role: room.RoleHost, DisplayName: "Host", Outbox: out1}
	rm1.Inbox() <- room.Leave{ClientID: "c1"}

	require.Eventually(t, func() bool {
		return getRoom(t, h, "quiz") == nil
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return !rm1.Send(room.GetView{Reply: make(chan room.View, 1)})
	}, time.Second, 10*time.Millisecond)

	rm2 := ensureRoom(t, h, "quiz")
	require.NotSame(t, rm1, rm2)

	out2 := make(chan room.Event, 16)
	require.True(t, rm2.Send(room.Join{ClientID: "c2", Role: room.RoleHost, DisplayName: "Host", Outbox: out2}))

	select {
	case ev, ok := <-out2:
		require.True(t, ok)
		require.Equal(t, room.EventJoined, ev.Kind)
		require.True(t, ev.IsHost)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for joined reply")
	}
}
