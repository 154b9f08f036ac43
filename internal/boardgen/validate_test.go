package boardgen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/server/internal/models"
)

func TestValidateAcceptsSampleBoard(t *testing.T) {
	assert.NoError(t, Validate(SampleBoard()))
}

func TestValidateRejectsWrongCategoryCount(t *testing.T) {
	board := SampleBoard()
	board.Categories = board.Categories[:5]
	assert.Error(t, Validate(board))
}

func TestValidateRejectsWrongClueCount(t *testing.T) {
	board := SampleBoard()
	board.Categories[0].Clues = board.Categories[0].Clues[:4]
	assert.Error(t, Validate(board))
}

func TestValidateRejectsDuplicateValue(t *testing.T) {
	board := SampleBoard()
	board.Categories[2].Clues[1].Value = 200
	assert.Error(t, Validate(board))
}

func TestValidateRejectsOffTierValue(t *testing.T) {
	board := SampleBoard()
	board.Categories[0].Clues[0].Value = 300
	assert.Error(t, Validate(board))
}

func TestValidateRejectsEmptyText(t *testing.T) {
	board := SampleBoard()
	board.Categories[0].Clues[0].Clue = "hm"
	assert.Error(t, Validate(board))

	board = SampleBoard()
	board.Categories[0].Clues[0].Answer = ""
	assert.Error(t, Validate(board))

	board = SampleBoard()
	board.Categories[0].Name = ""
	assert.Error(t, Validate(board))
}

func TestToBoardSortsAndResetsCells(t *testing.T) {
	provider := SampleBoard()
	// Shuffle one column out of order.
	clues := provider.Categories[0].Clues
	clues[0], clues[4] = clues[4], clues[0]

	board := ToBoard(provider)
	require.Len(t, board.Categories, models.CategoriesPerBoard)
	for _, cat := range board.Categories {
		require.Len(t, cat.Clues, models.CluesPerCategory)
		for i, clue := range cat.Clues {
			assert.Equal(t, models.ClueValues[i], clue.Value)
			assert.False(t, clue.Consumed)
			assert.NotNil(t, clue.Acceptable)
		}
	}
}

func TestParseProviderBoardStripsCodeFences(t *testing.T) {
	raw, err := json.Marshal(SampleBoard())
	require.NoError(t, err)

	fenced := "```json\n" + string(raw) + "\n```"
	board, err := parseProviderBoard(fenced)
	require.NoError(t, err)
	assert.Equal(t, "The Sampler Platter", board.GameTitle)
}

func TestParseProviderBoardRejectsGarbage(t *testing.T) {
	_, err := parseProviderBoard("not json at all")
	assert.Error(t, err)

	_, err = parseProviderBoard(`{"categories": []}`)
	assert.Error(t, err)
}
