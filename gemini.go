package main

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/bodul/xwedit/internal/hints"
)

const suggestPrompt = `Tu es un verbicruciste. Propose jusqu'à %d mots pour une grille de mots croisés
correspondant au motif %q : %d lettres, chaque "?" est une lettre inconnue, les autres lettres sont imposées.

Réponds avec un tableau JSON de la forme :
[
  {"word": "MOT", "clues": [{"clue": "Définition courte"}]},
  ...
]

Règles :
- "word" en majuscules, sans accent, sans espace ni tiret.
- Une à deux définitions par mot, dans le style des mots croisés.
- Réponds UNIQUEMENT avec le JSON, sans commentaire ni markdown.`

// Lookup asks Gemini Flash for words fitting pattern. Answers that do not
// fit the pattern are dropped.
func (g *GeminiClient) Lookup(ctx context.Context, pattern string, limit int) ([]hints.Hint, error) {
	if limit <= 0 {
		limit = 10
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: fmt.Sprintf(suggestPrompt, limit, pattern, len([]rune(pattern)))},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.4)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseSuggestions(text, pattern, limit)
}

// parseSuggestions decodes a Gemini answer and keeps the words matching pattern.
func parseSuggestions(text, pattern string, limit int) ([]hints.Hint, error) {
	var raw []hints.Hint
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse suggestions JSON: %w\nraw response: %s", err, text)
	}

	var out []hints.Hint
	seen := make(map[string]bool)
	for _, h := range raw {
		word, err := hints.NormalizeWord(h.Word)
		if err != nil || !hints.Match(pattern, word) || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, hints.Hint{Word: word, Clues: h.Clues})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
