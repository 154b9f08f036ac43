package boardgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a trivia question generator for a quiz-show style buzzer game.
Return ONLY valid JSON matching the schema below. No markdown, no commentary, no code fences.

Rules:
- Exactly 6 categories, exactly 5 clues per category
- Values must be exactly: 200, 400, 600, 800, 1000 (one of each per category, increasing difficulty)
- Content must be family-friendly
- No hateful, sexual, or discriminatory content
- No long quotes from copyrighted sources
- Clues should be phrased as statements
- Answers should be phrased as questions ("What is...?" / "Who is...?")
- Each clue should be self-contained and unambiguous
- Difficulty should increase with value (200 = easiest, 1000 = hardest)

Category naming rules (VERY IMPORTANT):
- Category names MUST be clever, punny, quiz-show style
- Use wordplay, puns, alliteration, double meanings, and pop culture references
- Never use plain, generic one-word category names

JSON Schema:
{
  "gameTitle": string,
  "difficulty": "easy"|"medium"|"hard",
  "categories": [
    {
      "name": string,
      "clues": [
        {
          "value": 200|400|600|800|1000,
          "clue": string,
          "answer": string,
          "acceptable": string[],
          "explanation": string
        }
      ]
    }
  ]
}`

// buildUserPrompt assembles the user-side generation request.
func buildUserPrompt(difficulty string, categories []string, customPrompt string) string {
	var parts []string

	if len(categories) > 0 {
		parts = append(parts, fmt.Sprintf("Generate a %s difficulty trivia board using these categories: %s.", difficulty, strings.Join(categories, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("Generate a %s difficulty trivia board with 6 interesting and diverse categories.", difficulty))
	}

	parts = append(parts, "Ensure exactly 6 categories and 5 clues per category.")
	parts = append(parts, "Remember: category names must be clever and quiz-show style.")

	if trimmed := strings.TrimSpace(customPrompt); trimmed != "" {
		parts = append(parts, "\nAdditional instructions from the host: "+trimmed)
	}

	return strings.Join(parts, " ")
}
