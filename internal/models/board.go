package models

// Board shape constants. Every loaded board must satisfy this exact
// grid: CategoriesPerBoard categories, each carrying one clue per
// entry of ClueValues.
const (
	CategoriesPerBoard = 6
	CluesPerCategory   = 5
)

// ClueValues are the point tiers each category must cover exactly once,
// in ascending order.
var ClueValues = [CluesPerCategory]int{200, 400, 600, 800, 1000}

// Clue is one selectable cell: its prompt content, point value, and
// whether it has been played already.
type Clue struct {
	Value       int      `json:"value"`
	Prompt      string   `json:"prompt"`
	Answer      string   `json:"answer"`
	Acceptable  []string `json:"acceptable"`
	Explanation string   `json:"explanation"`
	Consumed    bool     `json:"consumed"`
}

// Category is a named column of clues, sorted ascending by value.
type Category struct {
	Name  string `json:"name"`
	Clues []Clue `json:"clues"`
}

// Board is the full question grid owned by a room. Replaced wholesale
// on (re)generation; cells flip to consumed only through state machine
// transitions and never revert.
type Board struct {
	Categories []Category `json:"categories"`
}

// AllConsumed reports whether every cell on the board has been played.
func (b *Board) AllConsumed() bool {
	if b == nil {
		return false
	}
	for _, cat := range b.Categories {
		for _, clue := range cat.Clues {
			if !clue.Consumed {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{Categories: make([]Category, len(b.Categories))}
	for i, cat := range b.Categories {
		clues := make([]Clue, len(cat.Clues))
		copy(clues, cat.Clues)
		for j := range clues {
			if cat.Clues[j].Acceptable != nil {
				acc := make([]string, len(cat.Clues[j].Acceptable))
				copy(acc, cat.Clues[j].Acceptable)
				clues[j].Acceptable = acc
			}
		}
		out.Categories[i] = Category{Name: cat.Name, Clues: clues}
	}
	return out
}
