package gateway

import (
	"encoding/json"
)

// ClientMessage is the envelope for every client-to-server command.
type ClientMessage struct {
	Type CommandType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CommandType names a client command.
type CommandType string

const (
	CmdHostCreateRoom    CommandType = "host:create_room"
	CmdHostStartGame     CommandType = "host:start_game"
	CmdHostSelectPrompt  CommandType = "host:select_prompt"
	CmdHostRevealPrompt  CommandType = "host:reveal_prompt"
	CmdHostOpenRace      CommandType = "host:open_race"
	CmdHostJudge         CommandType = "host:judge"
	CmdHostSkipPrompt    CommandType = "host:skip_prompt"
	CmdHostShowAnswer    CommandType = "host:show_answer"
	CmdHostReturnToBoard CommandType = "host:return_to_board"
	CmdHostReclaim       CommandType = "host:reclaim"
	CmdBoardJoin         CommandType = "board:join"
	CmdPlayerJoin        CommandType = "player:join"
	CmdPlayerBuzz        CommandType = "player:buzz"
	CmdPlayerRejoin      CommandType = "player:rejoin"
)

// StartGamePayload names the room the host is starting.
type StartGamePayload struct {
	RoomCode string `json:"room_code"`
}

// SelectPromptPayload picks a cell off the grid.
type SelectPromptPayload struct {
	CategoryIndex int `json:"category_index"`
	ClueIndex     int `json:"clue_index"`
}

// JudgePayload carries the host's verdict on the current winner.
type JudgePayload struct {
	Correct bool  `json:"correct"`
	Reopen  *bool `json:"reopen,omitempty"` // defaults to true when absent
}

// ReclaimPayload re-authenticates a host from a new connection.
type ReclaimPayload struct {
	RoomCode   string `json:"room_code"`
	HostSecret string `json:"host_secret"`
}

// BoardJoinPayload attaches a board display to a room.
type BoardJoinPayload struct {
	RoomCode string `json:"room_code"`
}

// PlayerJoinPayload enrolls a new participant.
type PlayerJoinPayload struct {
	RoomCode    string `json:"room_code"`
	DisplayName string `json:"display_name"`
}

// PlayerRejoinPayload re-authenticates a participant with the token
// issued at join time.
type PlayerRejoinPayload struct {
	RoomCode string `json:"room_code"`
	Token    string `json:"token"`
}
