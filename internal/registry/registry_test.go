package registry

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/server/internal/models"
)

func newTestRegistry(t *testing.T) (*Registry, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	return New(clock, Config{MaxPlayers: 3, RoomExpiry: time.Hour}), clock
}

func TestCreateRoom(t *testing.T) {
	reg, _ := newTestRegistry(t)

	room := reg.CreateRoom("host-conn", models.GameSettings{ResponseWindow: 8 * time.Second})
	assert.Len(t, room.Code, 5)
	assert.Equal(t, models.PhaseLobby, room.Phase)
	assert.Equal(t, "host-conn", room.HostConnID)
	assert.Len(t, room.HostSecret, 6)
	assert.Empty(t, room.Players)
	assert.Equal(t, 1, reg.RoomCount())

	// Codes avoid lookalike characters.
	for _, c := range room.Code {
		assert.NotContains(t, "01IO", string(c))
	}
}

func TestCreateRoomUniqueCodes(t *testing.T) {
	reg, _ := newTestRegistry(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room := reg.CreateRoom("h", models.GameSettings{})
		assert.False(t, seen[room.Code])
		seen[room.Code] = true
	}
}

func TestJoinRoom(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	player, token, err := reg.JoinRoom(room.Code, "Ada", "conn-1")
	require.NoError(t, err)
	assert.NotEmpty(t, player.ID)
	assert.Equal(t, "Ada", player.DisplayName)
	assert.True(t, player.Connected)
	assert.Len(t, token, 32)

	got, ok := reg.GetRoom(room.Code)
	require.True(t, ok)
	assert.Len(t, got.Players, 1)

	bind, ok := reg.ConnBinding("conn-1")
	require.True(t, ok)
	assert.Equal(t, room.Code, bind.RoomCode)
	assert.Equal(t, player.ID, bind.ParticipantID)
}

func TestJoinRoomUnknownCode(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, _, err := reg.JoinRoom("XXXXX", "Ada", "conn-1")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomCapacity(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	for i := 0; i < 3; i++ {
		_, _, err := reg.JoinRoom(room.Code, "P", "conn")
		require.NoError(t, err)
	}

	_, _, err := reg.JoinRoom(room.Code, "overflow", "conn-x")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestRejoinSupersedesOldConnection(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})
	player, token, err := reg.JoinRoom(room.Code, "Ada", "conn-1")
	require.NoError(t, err)

	_, ok := reg.HandleDisconnect("conn-1")
	require.True(t, ok)
	got, _ := reg.GetRoom(room.Code)
	assert.False(t, got.Players[player.ID].Connected)

	pid, err := reg.Rejoin(room.Code, token, "conn-2")
	require.NoError(t, err)
	assert.Equal(t, player.ID, pid)

	got, _ = reg.GetRoom(room.Code)
	assert.True(t, got.Players[player.ID].Connected)
	// Score and identity persist across the reconnect.
	assert.Equal(t, "Ada", got.Players[player.ID].DisplayName)

	connID, ok := reg.PlayerConn(player.ID)
	require.True(t, ok)
	assert.Equal(t, "conn-2", connID)
	_, ok = reg.ConnBinding("conn-1")
	assert.False(t, ok)
}

func TestRejoinWhileOldConnectionStillBound(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})
	player, token, err := reg.JoinRoom(room.Code, "Ada", "conn-1")
	require.NoError(t, err)

	// No disconnect first: the new socket still takes over.
	pid, err := reg.Rejoin(room.Code, token, "conn-2")
	require.NoError(t, err)
	assert.Equal(t, player.ID, pid)

	_, ok := reg.ConnBinding("conn-1")
	assert.False(t, ok)
	bind, ok := reg.ConnBinding("conn-2")
	require.True(t, ok)
	assert.Equal(t, player.ID, bind.ParticipantID)
}

func TestRejoinRejectsBadToken(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})
	_, token, err := reg.JoinRoom(room.Code, "Ada", "conn-1")
	require.NoError(t, err)

	_, err = reg.Rejoin(room.Code, "bogus", "conn-2")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token bound to a different room code.
	other := reg.CreateRoom("h2", models.GameSettings{})
	_, err = reg.Rejoin(other.Code, token, "conn-2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHandleDisconnectUnknownConn(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, ok := reg.HandleDisconnect("nope")
	assert.False(t, ok)
}

func TestReclaimHost(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("host-1", models.GameSettings{})

	assert.False(t, reg.ReclaimHost(room.Code, "wrong", "host-2"))
	got, _ := reg.GetRoom(room.Code)
	assert.Equal(t, "host-1", got.HostConnID)

	assert.True(t, reg.ReclaimHost(room.Code, room.HostSecret, "host-2"))
	got, _ = reg.GetRoom(room.Code)
	assert.Equal(t, "host-2", got.HostConnID)
}

func TestWithRoomSwapsWholesale(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	next, err := reg.WithRoom(room.Code, func(r *models.Room) (*models.Room, error) {
		r.Phase = models.PhaseBoard
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBoard, next.Phase)

	got, _ := reg.GetRoom(room.Code)
	assert.Equal(t, models.PhaseBoard, got.Phase)
}

func TestWithRoomErrorLeavesStateUntouched(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	_, err := reg.WithRoom(room.Code, func(r *models.Room) (*models.Room, error) {
		r.Phase = models.PhaseGameOver
		return nil, assert.AnError
	})
	require.Error(t, err)

	got, _ := reg.GetRoom(room.Code)
	assert.Equal(t, models.PhaseLobby, got.Phase)
}

func TestWithRoomUnknownCode(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.WithRoom("XXXXX", func(r *models.Room) (*models.Room, error) {
		return r, nil
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSweepExpired(t *testing.T) {
	reg, clock := newTestRegistry(t)
	stale := reg.CreateRoom("h1", models.GameSettings{})
	_, staleToken, err := reg.JoinRoom(stale.Code, "Ada", "conn-1")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	fresh := reg.CreateRoom("h2", models.GameSettings{})

	removed := reg.SweepExpired(clock.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, reg.RoomCount())

	_, ok := reg.GetRoom(stale.Code)
	assert.False(t, ok)
	_, ok = reg.GetRoom(fresh.Code)
	assert.True(t, ok)

	// Tokens and bindings for the swept room are gone too.
	_, err = reg.Rejoin(stale.Code, staleToken, "conn-2")
	assert.Error(t, err)
	_, ok = reg.ConnBinding("conn-1")
	assert.False(t, ok)
}

func TestSweepKeepsActiveRooms(t *testing.T) {
	reg, clock := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	clock.Advance(50 * time.Minute)
	// Activity bumps the idle clock.
	_, _, err := reg.JoinRoom(room.Code, "Ada", "conn-1")
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	assert.Equal(t, 0, reg.SweepExpired(clock.Now()))
	assert.Equal(t, 1, reg.RoomCount())
}

func TestSetBoard(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})

	board := &models.Board{Categories: []models.Category{{Name: "Science", Clues: []models.Clue{{Value: 200, Prompt: "x"}}}}}
	require.NoError(t, reg.SetBoard(room.Code, board))

	got, _ := reg.GetRoom(room.Code)
	require.NotNil(t, got.Board)
	assert.Equal(t, "Science", got.Board.Categories[0].Name)

	assert.ErrorIs(t, reg.SetBoard("XXXXX", board), ErrRoomNotFound)
}

func TestSnapshotSuppressesSecrets(t *testing.T) {
	reg, _ := newTestRegistry(t)
	room := reg.CreateRoom("h", models.GameSettings{})
	board := &models.Board{Categories: []models.Category{{Name: "Science", Clues: []models.Clue{
		{Value: 200, Prompt: "secret prompt", Answer: "secret answer", Acceptable: []string{"a"}, Explanation: "why"},
	}}}}
	require.NoError(t, reg.SetBoard(room.Code, board))

	snap, ok := reg.Snapshot(room.Code)
	require.True(t, ok)
	assert.Equal(t, room.Code, snap.RoomCode)
	require.Len(t, snap.Board.Categories, 1)
	cell := snap.Board.Categories[0].Clues[0]
	assert.Equal(t, 200, cell.Value)
	assert.False(t, cell.Consumed)
}
