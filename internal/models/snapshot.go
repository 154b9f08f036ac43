package models

// Client-safe projections of room state. The host secret never appears
// here; neither do answers, acceptable variants, or explanations. Grid
// cells expose value and consumed only, and prompt text is withheld
// until the prompt has been revealed through the normal flow.

// PublicClue is one grid cell as the room sees it.
type PublicClue struct {
	Value    int  `json:"value"`
	Consumed bool `json:"consumed"`
}

// PublicCategory is a category column without clue content.
type PublicCategory struct {
	Name  string       `json:"name"`
	Clues []PublicClue `json:"clues"`
}

// PublicBoard is the grid with all text suppressed.
type PublicBoard struct {
	Categories []PublicCategory `json:"categories"`
}

// PublicActivePrompt carries the active cell's public content and timer
// metadata. Prompt text is empty until the reveal has fired.
type PublicActivePrompt struct {
	CategoryIndex   int    `json:"category_index"`
	ClueIndex       int    `json:"clue_index"`
	Prompt          string `json:"prompt"`
	Value           int    `json:"value"`
	WindowStartedMs int64  `json:"window_started_ms"`
	WindowMs        int64  `json:"window_ms"`
	JudgingStartMs  int64  `json:"judging_start_ms"`
	JudgingMs       int64  `json:"judging_ms"`
}

// PublicSettings is the room configuration as broadcast to clients.
type PublicSettings struct {
	ResponseWindowMs  int64 `json:"response_window_ms"`
	JudgingWindowMs   int64 `json:"judging_window_ms"`
	PenaltyEnabled    bool  `json:"penalty_enabled"`
	ReopenOnIncorrect bool  `json:"reopen_on_incorrect"`
}

// Snapshot is the full public view of a room, broadcast on every
// state-changing event.
type Snapshot struct {
	RoomCode     string              `json:"room_code"`
	Phase        Phase               `json:"phase"`
	Players      map[string]Player   `json:"players"`
	Board        *PublicBoard        `json:"board"`
	ActivePrompt *PublicActivePrompt `json:"active_prompt"`
	Race         *RaceState          `json:"race"`
	Settings     PublicSettings      `json:"settings"`
}

// PublicSnapshot projects a room into its client-safe view.
func PublicSnapshot(r *Room) *Snapshot {
	snap := &Snapshot{
		RoomCode: r.Code,
		Phase:    r.Phase,
		Players:  make(map[string]Player, len(r.Players)),
		Race:     r.Race.clone(),
		Settings: PublicSettings{
			ResponseWindowMs:  r.Settings.ResponseWindow.Milliseconds(),
			JudgingWindowMs:   r.Settings.JudgingWindow.Milliseconds(),
			PenaltyEnabled:    r.Settings.PenaltyEnabled,
			ReopenOnIncorrect: r.Settings.ReopenOnIncorrect,
		},
	}

	for id, p := range r.Players {
		snap.Players[id] = *p
	}

	if r.Board != nil {
		pb := &PublicBoard{Categories: make([]PublicCategory, len(r.Board.Categories))}
		for i, cat := range r.Board.Categories {
			col := PublicCategory{Name: cat.Name, Clues: make([]PublicClue, len(cat.Clues))}
			for j, clue := range cat.Clues {
				col.Clues[j] = PublicClue{Value: clue.Value, Consumed: clue.Consumed}
			}
			pb.Categories[i] = col
		}
		snap.Board = pb
	}

	if ap := r.ActivePrompt; ap != nil {
		pub := &PublicActivePrompt{
			CategoryIndex: ap.CategoryIndex,
			ClueIndex:     ap.ClueIndex,
			Value:         ap.Clue.Value,
			WindowMs:      ap.WindowFor.Milliseconds(),
			JudgingMs:     ap.JudgingFor.Milliseconds(),
		}
		if !ap.WindowStarted.IsZero() {
			pub.WindowStartedMs = ap.WindowStarted.UnixMilli()
		}
		if !ap.JudgingStart.IsZero() {
			pub.JudgingStartMs = ap.JudgingStart.UnixMilli()
		}
		if ap.Revealed {
			pub.Prompt = ap.Clue.Prompt
		}
		snap.ActivePrompt = pub
	}

	return snap
}
