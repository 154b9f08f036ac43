package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/quizwire/server/internal/models"
)

// RoomEvent is the envelope for every server-to-client event, whether
// broadcast to a room or sent to a single connection.
type RoomEvent struct {
	ID        string          `json:"id"`
	RoomCode  string          `json:"room_code"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType names a server-to-client event.
type EventType string

const (
	EventRoomCreated    EventType = "room:created"
	EventStateUpdate    EventType = "room:state_update"
	EventPlayerJoined   EventType = "room:player_joined"
	EventPlayerLeft     EventType = "room:player_left"
	EventPromptSelected EventType = "prompt:selected"
	EventPromptRevealed EventType = "prompt:revealed"
	EventPromptFullData EventType = "prompt:full_data"
	EventRaceOpened     EventType = "race:opened"
	EventRaceAttempt    EventType = "race:attempt"
	EventRaceWon        EventType = "race:won"
	EventRaceClosed     EventType = "race:closed"
	EventJudgeResult    EventType = "judge:result"
	EventAnswerRevealed EventType = "answer:revealed"
	EventGameOver       EventType = "game:over"
	EventJoinResult     EventType = "join:result"
	EventRejoinResult   EventType = "rejoin:result"
	EventBoardJoined    EventType = "board:joined"
	EventBuzzResult     EventType = "buzz:result"
	EventReclaimResult  EventType = "reclaim:result"
	EventError          EventType = "error"
)

// RoomCreatedPayload acks room creation to the host; the secret is for
// host re-authentication and never appears in any broadcast.
type RoomCreatedPayload struct {
	RoomCode   string `json:"room_code"`
	HostSecret string `json:"host_secret"`
}

// PlayerJoinedPayload announces a new participant to the room.
type PlayerJoinedPayload struct {
	Player models.Player `json:"player"`
}

// PlayerLeftPayload announces a participant's connection dropping.
type PlayerLeftPayload struct {
	ParticipantID string `json:"participant_id"`
}

// PromptSelectedPayload points at the chosen grid cell.
type PromptSelectedPayload struct {
	CategoryIndex int `json:"category_index"`
	ClueIndex     int `json:"clue_index"`
}

// PromptRevealedPayload carries the prompt text shown to the room.
type PromptRevealedPayload struct {
	Prompt   string `json:"prompt"`
	Value    int    `json:"value"`
	WindowMs int64  `json:"window_ms"`
}

// PromptFullDataPayload is host-only: the full cell content including
// the answer.
type PromptFullDataPayload struct {
	Prompt      string   `json:"prompt"`
	Value       int      `json:"value"`
	Answer      string   `json:"answer"`
	Acceptable  []string `json:"acceptable"`
	Explanation string   `json:"explanation"`
}

// RaceOpenedPayload announces an open buzz window.
type RaceOpenedPayload struct {
	RemainingMs int64 `json:"remaining_ms"`
}

// RaceAttemptPayload mirrors a rejected buzz to the room.
type RaceAttemptPayload struct {
	ParticipantID string `json:"participant_id"`
	Accepted      bool   `json:"accepted"`
	Reason        string `json:"reason,omitempty"`
}

// RaceWonPayload announces the adjudicated winner.
type RaceWonPayload struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

// RaceClosedPayload announces the window closing and why.
type RaceClosedPayload struct {
	Reason string `json:"reason"` // "won" or "timeout"
}

// JudgeResultPayload announces a scoring decision.
type JudgeResultPayload struct {
	Correct       bool   `json:"correct"`
	ParticipantID string `json:"participant_id"`
	Delta         int    `json:"delta"`
	NewScore      int    `json:"new_score"`
}

// AnswerRevealedPayload carries the answer text once shown.
type AnswerRevealedPayload struct {
	Answer string `json:"answer"`
}

// GameOverPayload carries final scores at the end of the grid.
type GameOverPayload struct {
	FinalScores map[string]int `json:"final_scores"`
}

// JoinResultPayload acks a player join with the credentials to persist
// for rejoins.
type JoinResultPayload struct {
	ParticipantID string           `json:"participant_id"`
	Token         string           `json:"token"`
	State         *models.Snapshot `json:"state"`
}

// RejoinResultPayload acks a successful rejoin.
type RejoinResultPayload struct {
	ParticipantID string           `json:"participant_id"`
	State         *models.Snapshot `json:"state"`
}

// BoardJoinedPayload acks a board display attaching to a room.
type BoardJoinedPayload struct {
	State *models.Snapshot `json:"state"`
}

// BuzzResultPayload is the per-attempt verdict, sent only to the
// buzzing participant.
type BuzzResultPayload struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// ReclaimResultPayload acks a host reclaim attempt.
type ReclaimResultPayload struct {
	Accepted bool `json:"accepted"`
}

// ErrorPayload reports a rejected command to the initiating connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newEvent wraps a payload in the event envelope. Marshalling the
// payload here keeps the envelope's Data opaque to the transport.
func newEvent(roomCode string, typ EventType, payload any) *RoomEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain structs; a marshal failure is a
		// programming error.
		panic(err)
	}
	return &RoomEvent{
		ID:        uuid.New().String(),
		RoomCode:  roomCode,
		Type:      typ,
		Timestamp: time.Now(),
		Data:      data,
	}
}
