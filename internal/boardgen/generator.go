package boardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/quizwire/server/internal/models"
)

const generateAttempts = 2

// GenerateRequest describes one board generation request.
type GenerateRequest struct {
	Difficulty   string
	Categories   []string
	CustomPrompt string
}

// Result is a generated board plus its provider metadata.
type Result struct {
	Board      *models.Board
	GameTitle  string
	Difficulty string
	// Fallback is set when generation failed and the bundled sample
	// board was returned instead.
	Fallback bool
}

// Generator produces validated boards from the content provider, with
// the bundled sample board as a last-resort fallback.
type Generator struct {
	client *Client
}

// NewGenerator creates a board generator backed by the given client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate asks the provider for a board and validates the response.
// A malformed response gets one retry with an explicit correction; if
// both attempts fail the sample board is returned with Fallback set.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	userPrompt := buildUserPrompt(req.Difficulty, req.Categories, req.CustomPrompt)

	var lastErr error
	for attempt := 0; attempt < generateAttempts; attempt++ {
		prompt := userPrompt
		if attempt > 0 {
			prompt = userPrompt + "\n\nYour previous response was invalid: " + lastErr.Error() + ". Return corrected JSON only."
		}

		raw, err := g.client.Generate(ctx, systemPrompt, prompt)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("board generation request failed")
			continue
		}

		provider, err := parseProviderBoard(raw)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("board generation returned invalid payload")
			continue
		}

		return &Result{
			Board:      ToBoard(provider),
			GameTitle:  provider.GameTitle,
			Difficulty: provider.Difficulty,
		}, nil
	}

	log.Error().Err(lastErr).Msg("board generation exhausted attempts, falling back to sample board")
	sample := SampleBoard()
	return &Result{
		Board:      ToBoard(sample),
		GameTitle:  sample.GameTitle,
		Difficulty: sample.Difficulty,
		Fallback:   true,
	}, nil
}

// parseProviderBoard decodes and validates raw provider output.
// Providers occasionally wrap JSON in code fences despite instructions,
// so those are stripped first.
func parseProviderBoard(raw string) (*ProviderBoard, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var board ProviderBoard
	if err := json.Unmarshal([]byte(cleaned), &board); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := Validate(&board); err != nil {
		return nil, fmt.Errorf("validate board: %w", err)
	}
	return &board, nil
}
