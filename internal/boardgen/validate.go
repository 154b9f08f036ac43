package boardgen

import (
	"fmt"
	"sort"

	"github.com/quizwire/server/internal/models"
)

// ProviderClue mirrors one clue as returned by the content provider.
type ProviderClue struct {
	Value       int      `json:"value"`
	Clue        string   `json:"clue"`
	Answer      string   `json:"answer"`
	Acceptable  []string `json:"acceptable"`
	Explanation string   `json:"explanation"`
}

// ProviderCategory mirrors one category as returned by the provider.
type ProviderCategory struct {
	Name  string         `json:"name"`
	Clues []ProviderClue `json:"clues"`
}

// ProviderBoard is the provider's raw board response, validated before
// it is accepted into a room.
type ProviderBoard struct {
	GameTitle  string             `json:"gameTitle"`
	Difficulty string             `json:"difficulty"`
	Categories []ProviderCategory `json:"categories"`
}

const (
	maxCategoryNameLen = 100
	minClueLen         = 5
	maxClueLen         = 500
	maxAnswerLen       = 300
	maxExplanationLen  = 500
)

// Validate defensively re-checks the fixed grid shape regardless of any
// validation the provider claims to perform: exact category count,
// exact clue count per category, and each value tier appearing exactly
// once per category.
func Validate(board *ProviderBoard) error {
	if len(board.Categories) != models.CategoriesPerBoard {
		return fmt.Errorf("expected %d categories, got %d", models.CategoriesPerBoard, len(board.Categories))
	}

	for ci, cat := range board.Categories {
		if cat.Name == "" || len(cat.Name) > maxCategoryNameLen {
			return fmt.Errorf("category %d: invalid name", ci)
		}
		if len(cat.Clues) != models.CluesPerCategory {
			return fmt.Errorf("category %q: expected %d clues, got %d", cat.Name, models.CluesPerCategory, len(cat.Clues))
		}

		seen := make(map[int]bool, models.CluesPerCategory)
		for cli, clue := range cat.Clues {
			if !validValue(clue.Value) {
				return fmt.Errorf("category %q clue %d: invalid value %d", cat.Name, cli, clue.Value)
			}
			if seen[clue.Value] {
				return fmt.Errorf("category %q: duplicate value %d", cat.Name, clue.Value)
			}
			seen[clue.Value] = true

			if len(clue.Clue) < minClueLen || len(clue.Clue) > maxClueLen {
				return fmt.Errorf("category %q clue %d: clue text out of bounds", cat.Name, cli)
			}
			if clue.Answer == "" || len(clue.Answer) > maxAnswerLen {
				return fmt.Errorf("category %q clue %d: invalid answer", cat.Name, cli)
			}
			if len(clue.Explanation) > maxExplanationLen {
				return fmt.Errorf("category %q clue %d: explanation too long", cat.Name, cli)
			}
		}
	}

	return nil
}

// ToBoard converts a validated provider board into the domain model,
// with clues sorted ascending by value and consumed flags cleared.
func ToBoard(board *ProviderBoard) *models.Board {
	out := &models.Board{Categories: make([]models.Category, len(board.Categories))}
	for i, cat := range board.Categories {
		clues := make([]models.Clue, len(cat.Clues))
		for j, clue := range cat.Clues {
			acceptable := clue.Acceptable
			if acceptable == nil {
				acceptable = []string{}
			}
			clues[j] = models.Clue{
				Value:       clue.Value,
				Prompt:      clue.Clue,
				Answer:      clue.Answer,
				Acceptable:  acceptable,
				Explanation: clue.Explanation,
			}
		}
		sort.Slice(clues, func(a, b int) bool { return clues[a].Value < clues[b].Value })
		out.Categories[i] = models.Category{Name: cat.Name, Clues: clues}
	}
	return out
}

func validValue(v int) bool {
	for _, tier := range models.ClueValues {
		if v == tier {
			return true
		}
	}
	return false
}
