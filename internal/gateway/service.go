package gateway

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/quizwire/server/internal/game"
	"github.com/quizwire/server/internal/models"
	"github.com/quizwire/server/internal/registry"
	"github.com/quizwire/server/internal/timers"
)

// ErrNotHost means a host command arrived from a connection that does
// not hold the room's host binding.
var ErrNotHost = errors.New("not the host for this room")

// Relay receives every outbound room event for out-of-band delivery
// (e.g. a message bus). May be nil.
type Relay interface {
	Publish(event *RoomEvent)
}

// Service translates inbound client messages into registry and state
// machine calls and broadcasts the resulting state. Every mutating
// command runs as one atomic unit under the room's lock: adjudication,
// transition, timer bookkeeping, then the snapshot swap; broadcasts
// happen after the lock is released.
type Service struct {
	registry *registry.Registry
	machine  *game.Machine
	timers   *timers.Orchestrator
	conns    *ConnectionManager
	relay    Relay
	settings models.GameSettings
}

// NewService wires the gateway service into the connection manager.
func NewService(reg *registry.Registry, machine *game.Machine, orch *timers.Orchestrator, conns *ConnectionManager, relay Relay, settings models.GameSettings) *Service {
	s := &Service{
		registry: reg,
		machine:  machine,
		timers:   orch,
		conns:    conns,
		relay:    relay,
		settings: settings,
	}
	conns.OnMessage = s.handleMessage
	conns.OnDisconnect = s.handleDisconnect
	return s
}

func (s *Service) handleMessage(conn *Connection, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError(conn, "", "BAD_MESSAGE", "malformed message")
		return
	}

	log.Debug().
		Str("connection_id", conn.ID).
		Str("command", string(msg.Type)).
		Msg("handling client command")

	switch msg.Type {
	case CmdHostCreateRoom:
		s.handleCreateRoom(conn)
	case CmdHostStartGame:
		var p StartGamePayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handleStartGame(conn, p)
	case CmdHostSelectPrompt:
		var p SelectPromptPayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handleSelectPrompt(conn, p)
	case CmdHostRevealPrompt:
		s.handleRevealPrompt(conn)
	case CmdHostOpenRace:
		s.handleOpenRace(conn)
	case CmdHostJudge:
		var p JudgePayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handleJudge(conn, p)
	case CmdHostSkipPrompt:
		s.handleSkipPrompt(conn)
	case CmdHostShowAnswer:
		s.handleShowAnswer(conn)
	case CmdHostReturnToBoard:
		s.handleReturnToBoard(conn)
	case CmdHostReclaim:
		var p ReclaimPayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handleReclaim(conn, p)
	case CmdBoardJoin:
		var p BoardJoinPayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handleBoardJoin(conn, p)
	case CmdPlayerJoin:
		var p PlayerJoinPayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handlePlayerJoin(conn, p)
	case CmdPlayerBuzz:
		s.handleBuzz(conn)
	case CmdPlayerRejoin:
		var p PlayerRejoinPayload
		if !s.decode(conn, msg.Data, &p) {
			return
		}
		s.handlePlayerRejoin(conn, p)
	default:
		s.sendError(conn, "", "UNKNOWN_COMMAND", "unknown command type")
	}
}

// Host commands

func (s *Service) handleCreateRoom(conn *Connection) {
	room := s.registry.CreateRoom(conn.ID, s.settings)
	conn.Attach(room.Code, RoleHost)
	s.sendTo(conn, room.Code, EventRoomCreated, RoomCreatedPayload{
		RoomCode:   room.Code,
		HostSecret: room.HostSecret,
	})
}

func (s *Service) handleStartGame(conn *Connection, p StartGamePayload) {
	code := p.RoomCode
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		if room.Board == nil {
			return nil, errNoBoardLoaded
		}
		return game.StartGame{}, nil
	}, nil)
	if err != nil {
		return
	}
	s.broadcastState(code, next)
}

func (s *Service) handleSelectPrompt(conn *Connection, p SelectPromptPayload) {
	code, _ := conn.Room()
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		return game.SelectPrompt{CategoryIndex: p.CategoryIndex, ClueIndex: p.ClueIndex}, nil
	}, nil)
	if err != nil {
		return
	}

	s.broadcast(code, EventPromptSelected, PromptSelectedPayload{
		CategoryIndex: p.CategoryIndex,
		ClueIndex:     p.ClueIndex,
	})
	s.sendFullPrompt(conn, next)
	s.broadcastState(code, next)
}

func (s *Service) handleRevealPrompt(conn *Connection) {
	code, _ := conn.Room()
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		return game.RevealPrompt{}, nil
	}, nil)
	if err != nil {
		return
	}

	ap := next.ActivePrompt
	s.broadcast(code, EventPromptRevealed, PromptRevealedPayload{
		Prompt:   ap.Clue.Prompt,
		Value:    ap.Clue.Value,
		WindowMs: ap.WindowFor.Milliseconds(),
	})
	s.broadcastState(code, next)
}

func (s *Service) handleOpenRace(conn *Connection) {
	code, _ := conn.Room()
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		return game.OpenRace{}, nil
	}, func(next *models.Room) {
		s.armRaceWindow(code, next)
	})
	if err != nil {
		return
	}

	s.broadcast(code, EventRaceOpened, RaceOpenedPayload{
		RemainingMs: next.ActivePrompt.WindowFor.Milliseconds(),
	})
	s.broadcastState(code, next)
}

func (s *Service) handleJudge(conn *Connection, p JudgePayload) {
	code, _ := conn.Room()
	reopen := true
	if p.Reopen != nil {
		reopen = *p.Reopen
	}

	var winnerID string
	var delta int
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		if room.Race == nil || room.Race.WinnerID == "" {
			return nil, errNoWinner
		}
		winnerID = room.Race.WinnerID
		delta = judgeDelta(room, p.Correct)
		return game.Judge{ParticipantID: winnerID, Correct: p.Correct, Reopen: reopen}, nil
	}, func(next *models.Room) {
		if next.Phase == models.PhaseRaceOpen {
			s.armRaceWindow(code, next)
		} else {
			s.timers.Disarm(code)
		}
	})
	if err != nil {
		return
	}

	newScore := 0
	if p, ok := next.Players[winnerID]; ok {
		newScore = p.Score
	}
	s.broadcast(code, EventJudgeResult, JudgeResultPayload{
		Correct:       p.Correct,
		ParticipantID: winnerID,
		Delta:         delta,
		NewScore:      newScore,
	})
	if next.Phase == models.PhaseRaceOpen {
		s.broadcast(code, EventRaceOpened, RaceOpenedPayload{
			RemainingMs: next.ActivePrompt.WindowFor.Milliseconds(),
		})
	}
	s.broadcastState(code, next)
}

func (s *Service) handleSkipPrompt(conn *Connection) {
	code, _ := conn.Room()
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		return game.SkipPrompt{}, nil
	}, func(next *models.Room) {
		s.timers.Disarm(code)
	})
	if err != nil {
		return
	}
	s.finishPrompt(code, next)
}

func (s *Service) handleShowAnswer(conn *Connection) {
	code, _ := conn.Room()
	room, ok := s.registry.GetRoom(code)
	if !ok || room.HostConnID != conn.ID || room.ActivePrompt == nil {
		return
	}
	s.broadcast(code, EventAnswerRevealed, AnswerRevealedPayload{
		Answer: room.ActivePrompt.Clue.Answer,
	})
}

func (s *Service) handleReturnToBoard(conn *Connection) {
	code, _ := conn.Room()
	next, err := s.hostTransition(conn, code, func(room *models.Room) (game.Action, error) {
		return game.ReturnToBoard{}, nil
	}, nil)
	if err != nil {
		return
	}
	s.finishPrompt(code, next)
}

func (s *Service) handleReclaim(conn *Connection, p ReclaimPayload) {
	accepted := s.registry.ReclaimHost(p.RoomCode, p.HostSecret, conn.ID)
	if accepted {
		conn.Attach(p.RoomCode, RoleHost)
	}
	s.sendTo(conn, p.RoomCode, EventReclaimResult, ReclaimResultPayload{Accepted: accepted})
}

// Board display commands

func (s *Service) handleBoardJoin(conn *Connection, p BoardJoinPayload) {
	snap, ok := s.registry.Snapshot(p.RoomCode)
	if !ok {
		s.sendError(conn, p.RoomCode, "ROOM_NOT_FOUND", "room not found")
		return
	}
	conn.Attach(p.RoomCode, RoleBoard)
	s.sendTo(conn, p.RoomCode, EventBoardJoined, BoardJoinedPayload{State: snap})
}

// Player commands

func (s *Service) handlePlayerJoin(conn *Connection, p PlayerJoinPayload) {
	player, token, err := s.registry.JoinRoom(p.RoomCode, p.DisplayName, conn.ID)
	if err != nil {
		s.sendError(conn, p.RoomCode, errCode(err), err.Error())
		return
	}

	conn.Attach(p.RoomCode, RolePlayer)
	snap, _ := s.registry.Snapshot(p.RoomCode)

	s.broadcast(p.RoomCode, EventPlayerJoined, PlayerJoinedPayload{Player: *player})
	s.broadcastSnapshot(p.RoomCode, snap)
	s.sendTo(conn, p.RoomCode, EventJoinResult, JoinResultPayload{
		ParticipantID: player.ID,
		Token:         token,
		State:         snap,
	})
}

func (s *Service) handleBuzz(conn *Connection) {
	bind, ok := s.registry.ConnBinding(conn.ID)
	if !ok {
		s.sendTo(conn, "", EventBuzzResult, BuzzResultPayload{
			Accepted: false,
			Reason:   string(game.ReasonUnknownParticipant),
		})
		return
	}

	var verdict game.Verdict
	next, err := s.registry.WithRoom(bind.RoomCode, func(room *models.Room) (*models.Room, error) {
		verdict = game.Adjudicate(room, bind.ParticipantID)
		if !verdict.Accepted {
			return nil, nil
		}
		n, err := s.machine.Transition(room, game.RaceWon{
			ParticipantID: bind.ParticipantID,
			ArrivalSeq:    room.Race.NextSeq,
		})
		if err != nil {
			return nil, err
		}
		s.timers.Arm(bind.RoomCode, n.ActivePrompt.JudgingFor, func() {
			s.judgingWindowExpired(bind.RoomCode)
		})
		return n, nil
	})
	if err != nil {
		s.sendError(conn, bind.RoomCode, errCode(err), err.Error())
		return
	}

	s.sendTo(conn, bind.RoomCode, EventBuzzResult, BuzzResultPayload{
		Accepted: verdict.Accepted,
		Reason:   string(verdict.Reason),
	})

	if !verdict.Accepted {
		s.broadcast(bind.RoomCode, EventRaceAttempt, RaceAttemptPayload{
			ParticipantID: bind.ParticipantID,
			Accepted:      false,
			Reason:        string(verdict.Reason),
		})
		return
	}

	winner := next.Players[bind.ParticipantID]
	s.broadcast(bind.RoomCode, EventRaceWon, RaceWonPayload{
		ParticipantID: bind.ParticipantID,
		DisplayName:   winner.DisplayName,
	})
	s.broadcast(bind.RoomCode, EventRaceClosed, RaceClosedPayload{Reason: "won"})
	s.broadcastState(bind.RoomCode, next)
	s.sendFullPromptToHost(next)
}

func (s *Service) handlePlayerRejoin(conn *Connection, p PlayerRejoinPayload) {
	participantID, err := s.registry.Rejoin(p.RoomCode, p.Token, conn.ID)
	if err != nil {
		s.sendError(conn, p.RoomCode, errCode(err), err.Error())
		return
	}

	conn.Attach(p.RoomCode, RolePlayer)
	snap, _ := s.registry.Snapshot(p.RoomCode)
	s.broadcastSnapshot(p.RoomCode, snap)
	s.sendTo(conn, p.RoomCode, EventRejoinResult, RejoinResultPayload{
		ParticipantID: participantID,
		State:         snap,
	})
}

func (s *Service) handleDisconnect(conn *Connection) {
	bind, ok := s.registry.HandleDisconnect(conn.ID)
	if !ok {
		return
	}
	s.broadcast(bind.RoomCode, EventPlayerLeft, PlayerLeftPayload{ParticipantID: bind.ParticipantID})
	if snap, ok := s.registry.Snapshot(bind.RoomCode); ok {
		s.broadcastSnapshot(bind.RoomCode, snap)
	}
}

// Timer expiry paths

// raceWindowExpired is the armed callback for an open race window. The
// phase check runs under the room lock: a winning buzz may have raced
// the timer, in which case the misfire is silently ignored.
func (s *Service) raceWindowExpired(code string) {
	applied := false
	next, err := s.registry.WithRoom(code, func(room *models.Room) (*models.Room, error) {
		if room.Phase != models.PhaseRaceOpen {
			return nil, nil
		}
		n, err := s.machine.Transition(room, game.RaceWindowExpired{})
		if err != nil {
			return nil, err
		}
		applied = true
		return n, nil
	})
	if err != nil || !applied {
		return
	}

	s.broadcast(code, EventRaceClosed, RaceClosedPayload{Reason: "timeout"})
	s.broadcastState(code, next)
}

// judgingWindowExpired fires when the winner ran out the post-buzz
// judging countdown; treated as an incorrect answer with reopen.
func (s *Service) judgingWindowExpired(code string) {
	var winnerID string
	var delta int
	applied := false
	next, err := s.registry.WithRoom(code, func(room *models.Room) (*models.Room, error) {
		if room.Phase != models.PhaseResolving {
			return nil, nil
		}
		winnerID = room.Race.WinnerID
		delta = judgeDelta(room, false)
		n, err := s.machine.Transition(room, game.JudgingWindowExpired{})
		if err != nil {
			return nil, err
		}
		if n.Phase == models.PhaseRaceOpen {
			s.armRaceWindow(code, n)
		}
		applied = true
		return n, nil
	})
	if err != nil || !applied {
		return
	}

	newScore := 0
	if p, ok := next.Players[winnerID]; ok {
		newScore = p.Score
	}
	s.broadcast(code, EventJudgeResult, JudgeResultPayload{
		Correct:       false,
		ParticipantID: winnerID,
		Delta:         delta,
		NewScore:      newScore,
	})
	if next.Phase == models.PhaseRaceOpen {
		s.broadcast(code, EventRaceOpened, RaceOpenedPayload{
			RemainingMs: next.ActivePrompt.WindowFor.Milliseconds(),
		})
	}
	s.broadcastState(code, next)
}

// Shared helpers

var (
	errNoBoardLoaded = errors.New("no board loaded, generate a board first")
	errNoWinner      = errors.New("no winner to judge")
)

// hostTransition runs the standard host-command unit: under the room
// lock, verify the host binding, build the action, transition, and run
// timer bookkeeping against the accepted next state.
func (s *Service) hostTransition(conn *Connection, code string, build func(room *models.Room) (game.Action, error), onNext func(next *models.Room)) (*models.Room, error) {
	next, err := s.registry.WithRoom(code, func(room *models.Room) (*models.Room, error) {
		if room.HostConnID != conn.ID {
			return nil, ErrNotHost
		}
		action, err := build(room)
		if err != nil {
			return nil, err
		}
		n, err := s.machine.Transition(room, action)
		if err != nil {
			return nil, err
		}
		if onNext != nil {
			onNext(n)
		}
		return n, nil
	})
	if err != nil {
		s.sendError(conn, code, errCode(err), err.Error())
		return nil, err
	}
	return next, nil
}

func (s *Service) armRaceWindow(code string, next *models.Room) {
	s.timers.Arm(code, next.ActivePrompt.WindowFor, func() {
		s.raceWindowExpired(code)
	})
}

// finishPrompt broadcasts the tail of a prompt lifecycle: game over if
// the grid is exhausted, then the state snapshot.
func (s *Service) finishPrompt(code string, next *models.Room) {
	if next.Phase == models.PhaseGameOver {
		scores := make(map[string]int, len(next.Players))
		for id, p := range next.Players {
			scores[id] = p.Score
		}
		s.broadcast(code, EventGameOver, GameOverPayload{FinalScores: scores})
	}
	s.broadcastState(code, next)
}

// sendFullPrompt sends the host the complete cell content including the
// answer; never broadcast.
func (s *Service) sendFullPrompt(conn *Connection, room *models.Room) {
	ap := room.ActivePrompt
	if ap == nil {
		return
	}
	s.sendTo(conn, room.Code, EventPromptFullData, PromptFullDataPayload{
		Prompt:      ap.Clue.Prompt,
		Value:       ap.Clue.Value,
		Answer:      ap.Clue.Answer,
		Acceptable:  ap.Clue.Acceptable,
		Explanation: ap.Clue.Explanation,
	})
}

// sendFullPromptToHost routes the full prompt to whatever connection
// currently holds the host binding.
func (s *Service) sendFullPromptToHost(room *models.Room) {
	ap := room.ActivePrompt
	if ap == nil || room.HostConnID == "" {
		return
	}
	event := newEvent(room.Code, EventPromptFullData, PromptFullDataPayload{
		Prompt:      ap.Clue.Prompt,
		Value:       ap.Clue.Value,
		Answer:      ap.Clue.Answer,
		Acceptable:  ap.Clue.Acceptable,
		Explanation: ap.Clue.Explanation,
	})
	s.conns.SendToConn(room.HostConnID, event)
}

// BoardLoaded broadcasts a fresh state snapshot after a board has been
// installed into a room outside the socket command path.
func (s *Service) BoardLoaded(code string) {
	if snap, ok := s.registry.Snapshot(code); ok {
		s.broadcastSnapshot(code, snap)
	}
}

func (s *Service) broadcastState(code string, room *models.Room) {
	s.broadcastSnapshot(code, models.PublicSnapshot(room))
}

func (s *Service) broadcastSnapshot(code string, snap *models.Snapshot) {
	s.broadcast(code, EventStateUpdate, snap)
}

func (s *Service) broadcast(code string, typ EventType, payload any) {
	event := newEvent(code, typ, payload)
	s.conns.BroadcastToRoom(code, event)
	if s.relay != nil {
		s.relay.Publish(event)
	}
}

func (s *Service) sendTo(conn *Connection, code string, typ EventType, payload any) {
	s.conns.SendToConn(conn.ID, newEvent(code, typ, payload))
}

func (s *Service) sendError(conn *Connection, code, errCode, msg string) {
	s.sendTo(conn, code, EventError, ErrorPayload{Code: errCode, Message: msg})
}

func (s *Service) decode(conn *Connection, data json.RawMessage, out any) bool {
	if len(data) == 0 {
		s.sendError(conn, "", "BAD_MESSAGE", "missing command payload")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.sendError(conn, "", "BAD_MESSAGE", "malformed command payload")
		return false
	}
	return true
}

func judgeDelta(room *models.Room, correct bool) int {
	value := 0
	if room.ActivePrompt != nil {
		value = room.ActivePrompt.Clue.Value
	}
	if correct {
		return value
	}
	if room.Settings.PenaltyEnabled {
		return -value
	}
	return 0
}

func errCode(err error) string {
	switch {
	case game.IsInvalidTransition(err):
		return "INVALID_TRANSITION"
	case errors.Is(err, game.ErrNoBoard), errors.Is(err, errNoBoardLoaded):
		return "NO_BOARD"
	case errors.Is(err, game.ErrBadIndex), errors.Is(err, game.ErrCellConsumed):
		return "INVALID_PROMPT"
	case errors.Is(err, errNoWinner):
		return "NO_WINNER"
	case errors.Is(err, ErrNotHost):
		return "NOT_HOST"
	case errors.Is(err, registry.ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, registry.ErrRoomFull):
		return "ROOM_FULL"
	case errors.Is(err, registry.ErrInvalidToken):
		return "REJOIN_FAILED"
	default:
		return "INTERNAL"
	}
}
