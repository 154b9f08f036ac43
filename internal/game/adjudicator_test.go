package game

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/server/internal/models"
)

func raceOpenRoom(t *testing.T) *models.Room {
	t.Helper()
	m := NewMachine(clockwork.NewFakeClock())
	room := testRoom(models.PhaseBoard)

	room, err := m.Transition(room, SelectPrompt{CategoryIndex: 0, ClueIndex: 0})
	require.NoError(t, err)
	room, err = m.Transition(room, RevealPrompt{})
	require.NoError(t, err)
	room, err = m.Transition(room, OpenRace{})
	require.NoError(t, err)
	return room
}

func TestAdjudicateAccepts(t *testing.T) {
	room := raceOpenRoom(t)

	v := Adjudicate(room, "p1")
	assert.True(t, v.Accepted)
	assert.Equal(t, "p1", v.WinnerID)
	assert.Empty(t, v.Reason)
}

func TestAdjudicateRejectsClosedPhase(t *testing.T) {
	for _, phase := range []models.Phase{
		models.PhaseLobby,
		models.PhaseBoard,
		models.PhasePromptSelected,
		models.PhasePromptRevealed,
		models.PhaseResolving,
		models.PhaseAwaitingReveal,
		models.PhaseGameOver,
	} {
		room := testRoom(phase)
		v := Adjudicate(room, "p1")
		assert.False(t, v.Accepted, "phase %s", phase)
		assert.Equal(t, ReasonClosed, v.Reason)
	}
}

func TestAdjudicateRejectsClosedWindow(t *testing.T) {
	room := raceOpenRoom(t)
	room.Race.Open = false

	v := Adjudicate(room, "p1")
	assert.False(t, v.Accepted)
	assert.Equal(t, ReasonClosed, v.Reason)
}

func TestAdjudicateRejectsUnknownParticipant(t *testing.T) {
	room := raceOpenRoom(t)

	v := Adjudicate(room, "ghost")
	assert.False(t, v.Accepted)
	assert.Equal(t, ReasonUnknownParticipant, v.Reason)
}

func TestAdjudicateRejectsLockedOut(t *testing.T) {
	room := raceOpenRoom(t)
	room.Race.LockedOut = []string{"p1"}

	v := Adjudicate(room, "p1")
	assert.False(t, v.Accepted)
	assert.Equal(t, ReasonLockedOut, v.Reason)
}

func TestAdjudicateRejectsAfterWinnerDecided(t *testing.T) {
	room := raceOpenRoom(t)
	room.Race.WinnerID = "p1"

	v := Adjudicate(room, "p2")
	assert.False(t, v.Accepted)
	assert.Equal(t, ReasonAlreadyDecided, v.Reason)
}

func TestAdjudicateRejectsDuplicateAttempt(t *testing.T) {
	room := raceOpenRoom(t)
	room.Race.Attempts = []models.RaceAttempt{{ParticipantID: "p1", Seq: 1}}

	v := Adjudicate(room, "p1")
	assert.False(t, v.Accepted)
	assert.Equal(t, ReasonDuplicateAttempt, v.Reason)
}

// Exactly one buzz wins when attempts are processed in sequence under
// the per-room lock: the first is accepted, every later one is not.
func TestAdjudicateExactlyOneWinner(t *testing.T) {
	m := NewMachine(clockwork.NewFakeClock())
	room := raceOpenRoom(t)

	first := Adjudicate(room, "p1")
	require.True(t, first.Accepted)

	next, err := m.Transition(room, RaceWon{ParticipantID: first.WinnerID, ArrivalSeq: room.Race.NextSeq})
	require.NoError(t, err)

	second := Adjudicate(next, "p2")
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonClosed, second.Reason)
}
