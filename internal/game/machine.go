package game

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quizwire/server/internal/models"
)

// legalActions is the fixed legal-action table: which action kinds may
// fire from each phase. Anything absent is an invalid transition.
var legalActions = map[models.Phase][]ActionKind{
	models.PhaseLobby:          {ActionStartGame},
	models.PhaseBoard:          {ActionSelectPrompt},
	models.PhasePromptSelected: {ActionRevealPrompt, ActionSkipPrompt},
	models.PhasePromptRevealed: {ActionOpenRace, ActionSkipPrompt},
	models.PhaseRaceOpen:       {ActionRaceWon, ActionRaceWindowExpired, ActionSkipPrompt},
	models.PhaseResolving:      {ActionJudge, ActionJudgingWindowExpired},
	models.PhaseAwaitingReveal: {ActionReturnToBoard, ActionSkipPrompt},
	models.PhaseGameOver:       {},
}

// Machine is the flow state machine: the single place that mutates
// score, clue usage, and round sub-state. Transition is deterministic
// given the clock; callers swap in the returned room wholesale.
type Machine struct {
	clock clockwork.Clock
}

// NewMachine creates a state machine driven by the given clock. Use
// clockwork.NewRealClock() in production and a FakeClock in tests.
func NewMachine(clock clockwork.Clock) *Machine {
	return &Machine{clock: clock}
}

// Transition applies an action to a room and returns the next room
// state. The input room is never mutated; on any error the caller's
// state is exactly what it was.
func (m *Machine) Transition(room *models.Room, action Action) (*models.Room, error) {
	if !actionAllowed(room.Phase, action.Kind()) {
		return nil, &InvalidTransitionError{Phase: room.Phase, Action: action.Kind()}
	}

	now := m.clock.Now()
	next := room.Clone()
	next.LastActivityAt = now

	switch a := action.(type) {
	case StartGame:
		return m.landOnBoard(next), nil

	case SelectPrompt:
		if next.Board == nil {
			return nil, ErrNoBoard
		}
		if a.CategoryIndex < 0 || a.CategoryIndex >= len(next.Board.Categories) {
			return nil, fmt.Errorf("category %d: %w", a.CategoryIndex, ErrBadIndex)
		}
		cat := next.Board.Categories[a.CategoryIndex]
		if a.ClueIndex < 0 || a.ClueIndex >= len(cat.Clues) {
			return nil, fmt.Errorf("clue %d: %w", a.ClueIndex, ErrBadIndex)
		}
		clue := cat.Clues[a.ClueIndex]
		if clue.Consumed {
			return nil, ErrCellConsumed
		}
		next.ActivePrompt = &models.ActivePrompt{
			CategoryIndex: a.CategoryIndex,
			ClueIndex:     a.ClueIndex,
			Clue:          clue,
			WindowFor:     next.Settings.ResponseWindow,
		}
		next.Race = nil
		next.Phase = models.PhasePromptSelected
		return next, nil

	case RevealPrompt:
		next.ActivePrompt.Revealed = true
		next.Phase = models.PhasePromptRevealed
		return next, nil

	case OpenRace:
		next.Race = &models.RaceState{Open: true, NextSeq: 1}
		next.ActivePrompt.WindowStarted = now
		next.ActivePrompt.WindowFor = next.Settings.ResponseWindow
		next.Phase = models.PhaseRaceOpen
		return next, nil

	case RaceWon:
		race := next.Race
		race.Attempts = append(race.Attempts, models.RaceAttempt{
			ParticipantID: a.ParticipantID,
			Seq:           a.ArrivalSeq,
			At:            now,
		})
		race.WinnerID = a.ParticipantID
		race.Open = false
		if a.ArrivalSeq >= race.NextSeq {
			race.NextSeq = a.ArrivalSeq + 1
		}
		next.ActivePrompt.JudgingStart = now
		next.ActivePrompt.JudgingFor = next.Settings.JudgingWindow
		next.Phase = models.PhaseResolving
		return next, nil

	case RaceWindowExpired:
		next.Race.Open = false
		next.Race.WinnerID = ""
		next.Phase = models.PhaseAwaitingReveal
		return next, nil

	case Judge:
		if a.Correct {
			if p, ok := next.Players[a.ParticipantID]; ok {
				p.Score += next.ActivePrompt.Clue.Value
			}
			next.Phase = models.PhaseAwaitingReveal
			return next, nil
		}
		return m.resolveIncorrect(next, a.ParticipantID, a.Reopen, next.Settings.ResponseWindow, now), nil

	case JudgingWindowExpired:
		winner := next.Race.WinnerID
		return m.resolveIncorrect(next, winner, true, next.Settings.JudgingWindow, now), nil

	case SkipPrompt:
		return m.landOnBoard(next), nil

	case ReturnToBoard:
		return m.landOnBoard(next), nil

	default:
		return nil, &InvalidTransitionError{Phase: room.Phase, Action: action.Kind()}
	}
}

func actionAllowed(phase models.Phase, kind ActionKind) bool {
	for _, k := range legalActions[phase] {
		if k == kind {
			return true
		}
	}
	return false
}

// resolveIncorrect applies the wrong-answer path shared by judge and
// the judging-window timeout: penalty, lockout, then either a
// re-contest or the reveal. reopenWindow is the response-window length
// used if the race reopens.
func (m *Machine) resolveIncorrect(next *models.Room, participantID string, reopen bool, reopenWindow time.Duration, now time.Time) *models.Room {
	if p, ok := next.Players[participantID]; ok && next.Settings.PenaltyEnabled {
		p.Score -= next.ActivePrompt.Clue.Value
	}

	if next.Race == nil {
		next.Race = &models.RaceState{NextSeq: 1}
	}
	next.Race.LockedOut = append(next.Race.LockedOut, participantID)
	next.Race.WinnerID = ""

	if reopen && next.Settings.ReopenOnIncorrect && next.EligibleRacers() > 0 {
		next.Race.Open = true
		next.ActivePrompt.WindowStarted = now
		next.ActivePrompt.WindowFor = reopenWindow
		next.Phase = models.PhaseRaceOpen
		return next
	}

	next.Race.Open = false
	next.Phase = models.PhaseAwaitingReveal
	return next
}

// landOnBoard closes out the active prompt, consuming its cell, and
// lands on BOARD, or GAME_OVER when the grid has been exhausted.
func (m *Machine) landOnBoard(next *models.Room) *models.Room {
	if next.Board != nil && next.ActivePrompt != nil {
		ap := next.ActivePrompt
		next.Board.Categories[ap.CategoryIndex].Clues[ap.ClueIndex].Consumed = true
	}
	next.ActivePrompt = nil
	next.Race = nil
	if next.Board.AllConsumed() {
		next.Phase = models.PhaseGameOver
		return next
	}
	next.Phase = models.PhaseBoard
	return next
}
