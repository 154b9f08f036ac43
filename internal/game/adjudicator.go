package game

import (
	"github.com/quizwire/server/internal/models"
)

// RejectReason explains why a buzz attempt was not accepted.
type RejectReason string

const (
	ReasonClosed             RejectReason = "closed"
	ReasonUnknownParticipant RejectReason = "unknown_participant"
	ReasonLockedOut          RejectReason = "locked_out"
	ReasonAlreadyDecided     RejectReason = "already_decided"
	ReasonDuplicateAttempt   RejectReason = "duplicate_attempt"
)

// Verdict is the adjudicator's decision on one buzz attempt.
type Verdict struct {
	Accepted bool
	Reason   RejectReason
	WinnerID string
}

// Adjudicate decides whether a buzz attempt wins the open race window.
// It is pure and read-only: acceptance means this attempt is the
// unconditional winner, because the surrounding registry serializes all
// mutating operations per room and so "first processed" is a total
// order. No client-reported timing is consulted.
func Adjudicate(room *models.Room, participantID string) Verdict {
	if room.Phase != models.PhaseRaceOpen {
		return Verdict{Reason: ReasonClosed}
	}

	race := room.Race
	if race == nil || !race.Open {
		return Verdict{Reason: ReasonClosed}
	}

	if _, ok := room.Players[participantID]; !ok {
		return Verdict{Reason: ReasonUnknownParticipant}
	}

	if race.Locked(participantID) {
		return Verdict{Reason: ReasonLockedOut}
	}

	if race.WinnerID != "" {
		return Verdict{Reason: ReasonAlreadyDecided}
	}

	if race.HasAttempt(participantID) {
		return Verdict{Reason: ReasonDuplicateAttempt}
	}

	return Verdict{Accepted: true, WinnerID: participantID}
}
