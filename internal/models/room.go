package models

import (
	"time"
)

// Phase defines where a room sits in the game flow.
type Phase string

const (
	PhaseLobby          Phase = "LOBBY"
	PhaseBoard          Phase = "BOARD"
	PhasePromptSelected Phase = "PROMPT_SELECTED"
	PhasePromptRevealed Phase = "PROMPT_REVEALED"
	PhaseRaceOpen       Phase = "RACE_OPEN"
	PhaseResolving      Phase = "RESOLVING"
	PhaseAwaitingReveal Phase = "AWAITING_REVEAL"
	PhaseGameOver       Phase = "GAME_OVER"
)

// GameSettings holds per-room flow configuration.
type GameSettings struct {
	ResponseWindow    time.Duration `json:"response_window"`
	JudgingWindow     time.Duration `json:"judging_window"`
	PenaltyEnabled    bool          `json:"penalty_enabled"`
	ReopenOnIncorrect bool          `json:"reopen_on_incorrect"`
}

// Player is a scored contestant within a room. Players are created on
// join and live as long as the room; disconnect only flips the liveness
// flag, it is not departure.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	Connected   bool   `json:"connected"`
}

// RaceAttempt records one accepted buzz: who, and in what arrival order
// the authority processed it.
type RaceAttempt struct {
	ParticipantID string    `json:"participant_id"`
	Seq           int       `json:"seq"`
	At            time.Time `json:"at"`
}

// RaceState tracks buzzing for the active prompt. Reset whenever a new
// prompt goes up; lockouts accumulate across wrong-answer cycles on the
// same prompt.
type RaceState struct {
	Open      bool          `json:"open"`
	Attempts  []RaceAttempt `json:"attempts"`
	WinnerID  string        `json:"winner_id"`
	LockedOut []string      `json:"locked_out"`
	NextSeq   int           `json:"next_seq"`
}

// Locked reports whether the participant is barred from buzzing on the
// current prompt.
func (rs *RaceState) Locked(participantID string) bool {
	if rs == nil {
		return false
	}
	for _, id := range rs.LockedOut {
		if id == participantID {
			return true
		}
	}
	return false
}

// HasAttempt reports whether the participant already holds an accepted
// attempt in this window.
func (rs *RaceState) HasAttempt(participantID string) bool {
	if rs == nil {
		return false
	}
	for _, a := range rs.Attempts {
		if a.ParticipantID == participantID {
			return true
		}
	}
	return false
}

func (rs *RaceState) clone() *RaceState {
	if rs == nil {
		return nil
	}
	out := &RaceState{
		Open:     rs.Open,
		WinnerID: rs.WinnerID,
		NextSeq:  rs.NextSeq,
	}
	if rs.Attempts != nil {
		out.Attempts = make([]RaceAttempt, len(rs.Attempts))
		copy(out.Attempts, rs.Attempts)
	}
	if rs.LockedOut != nil {
		out.LockedOut = make([]string, len(rs.LockedOut))
		copy(out.LockedOut, rs.LockedOut)
	}
	return out
}

// ActivePrompt is the currently selected cell plus its timing metadata.
// Exists only between selection and the return to the board.
type ActivePrompt struct {
	CategoryIndex int           `json:"category_index"`
	ClueIndex     int           `json:"clue_index"`
	Clue          Clue          `json:"clue"`
	Revealed      bool          `json:"revealed"`
	WindowStarted time.Time     `json:"window_started"`
	WindowFor     time.Duration `json:"window_for"`
	JudgingStart  time.Time     `json:"judging_start"`
	JudgingFor    time.Duration `json:"judging_for"`
}

func (ap *ActivePrompt) clone() *ActivePrompt {
	if ap == nil {
		return nil
	}
	cp := *ap
	if ap.Clue.Acceptable != nil {
		cp.Clue.Acceptable = make([]string, len(ap.Clue.Acceptable))
		copy(cp.Clue.Acceptable, ap.Clue.Acceptable)
	}
	return &cp
}

// Room is the aggregate root for one game session. Mutation only ever
// happens by replacing the room wholesale with the output of a state
// machine transition.
type Room struct {
	Code           string             `json:"code"`
	HostConnID     string             `json:"host_conn_id"`
	HostSecret     string             `json:"host_secret"`
	Phase          Phase              `json:"phase"`
	Players        map[string]*Player `json:"players"`
	Board          *Board             `json:"board"`
	ActivePrompt   *ActivePrompt      `json:"active_prompt"`
	Race           *RaceState         `json:"race"`
	Settings       GameSettings       `json:"settings"`
	CreatedAt      time.Time          `json:"created_at"`
	LastActivityAt time.Time          `json:"last_activity_at"`
}

// Clone returns a deep copy of the room. Transitions clone first, then
// mutate the copy, so a failed action never leaves partial state.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = make(map[string]*Player, len(r.Players))
	for id, p := range r.Players {
		pc := *p
		cp.Players[id] = &pc
	}
	cp.Board = r.Board.Clone()
	cp.ActivePrompt = r.ActivePrompt.clone()
	cp.Race = r.Race.clone()
	return &cp
}

// EligibleRacers counts participants not in the locked-out set.
func (r *Room) EligibleRacers() int {
	n := 0
	for id := range r.Players {
		if !r.Race.Locked(id) {
			n++
		}
	}
	return n
}
