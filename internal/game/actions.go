package game

// ActionKind discriminates the action variants fed to the state machine.
type ActionKind string

const (
	ActionStartGame            ActionKind = "START_GAME"
	ActionSelectPrompt         ActionKind = "SELECT_PROMPT"
	ActionRevealPrompt         ActionKind = "REVEAL_PROMPT"
	ActionOpenRace             ActionKind = "OPEN_RACE"
	ActionRaceWon              ActionKind = "RACE_WON"
	ActionRaceWindowExpired    ActionKind = "RACE_WINDOW_EXPIRED"
	ActionJudge                ActionKind = "JUDGE"
	ActionJudgingWindowExpired ActionKind = "JUDGING_WINDOW_EXPIRED"
	ActionSkipPrompt           ActionKind = "SKIP_PROMPT"
	ActionReturnToBoard        ActionKind = "RETURN_TO_BOARD"
)

// Action is the closed set of inputs the state machine accepts. Each
// variant carries its own payload; Transition switches exhaustively on
// the concrete type.
type Action interface {
	Kind() ActionKind
}

// StartGame moves a lobby onto the board.
type StartGame struct{}

// SelectPrompt picks an unconsumed cell off the grid.
type SelectPrompt struct {
	CategoryIndex int
	ClueIndex     int
}

// RevealPrompt shows the selected prompt's text to the room.
type RevealPrompt struct{}

// OpenRace opens the buzz window and arms the response timer.
type OpenRace struct{}

// RaceWon records the adjudicated winner of an open race window.
type RaceWon struct {
	ParticipantID string
	ArrivalSeq    int
}

// RaceWindowExpired closes an open race window with no winner.
type RaceWindowExpired struct{}

// Judge resolves the current winner's answer. Reopen asks for a
// re-contest on an incorrect answer; it is honored only when the room's
// reopen-on-incorrect setting allows it and eligible racers remain.
type Judge struct {
	ParticipantID string
	Correct       bool
	Reopen        bool
}

// JudgingWindowExpired fires when the winner ran out the post-buzz
// judging countdown; it is treated as an incorrect answer.
type JudgingWindowExpired struct{}

// SkipPrompt abandons the active prompt without awarding points.
type SkipPrompt struct{}

// ReturnToBoard closes out a resolved prompt and goes back to the grid.
type ReturnToBoard struct{}

func (StartGame) Kind() ActionKind            { return ActionStartGame }
func (SelectPrompt) Kind() ActionKind         { return ActionSelectPrompt }
func (RevealPrompt) Kind() ActionKind         { return ActionRevealPrompt }
func (OpenRace) Kind() ActionKind             { return ActionOpenRace }
func (RaceWon) Kind() ActionKind              { return ActionRaceWon }
func (RaceWindowExpired) Kind() ActionKind    { return ActionRaceWindowExpired }
func (Judge) Kind() ActionKind                { return ActionJudge }
func (JudgingWindowExpired) Kind() ActionKind { return ActionJudgingWindowExpired }
func (SkipPrompt) Kind() ActionKind           { return ActionSkipPrompt }
func (ReturnToBoard) Kind() ActionKind        { return ActionReturnToBoard }
