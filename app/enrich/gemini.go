package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const classifyPromptTemplate = `You classify short football video metadata.
Available category ids: %s

Title: %s
Description: %s

Respond with ONLY a JSON object, no prose, shaped as:
{"category_ids": ["..."], "relevance": 0-100, "confidence": 0.0-1.0}
Use only the listed category ids.`

const summarizePromptTemplate = `You summarize short football video metadata.

Title: %s
Description: %s

Respond with ONLY a JSON object, no prose, shaped as:
{"summary": "one or two sentences", "language": "two-letter code of the summary language"}
Write the summary in the same language as the title.`

// Gemini backs both cascades with a single genai client.
type Gemini struct {
	client *genai.Client
	model  string
}

var (
	_ Classifier = (*Gemini)(nil)
	_ Summarizer = (*Gemini)(nil)
)

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Classify(ctx context.Context, title, description string, categoryIDs []string) (Classification, error) {
	prompt := fmt.Sprintf(classifyPromptTemplate, strings.Join(categoryIDs, ", "), title, description)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return Classification{}, err
	}

	return parseClassificationJSON(text)
}

func (g *Gemini) Summarize(ctx context.Context, title, description string) (Summary, error) {
	prompt := fmt.Sprintf(summarizePromptTemplate, title, description)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return Summary{}, err
	}

	return parseSummaryJSON(text)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model: %w", ErrMalformedResponse)
	}

	return text, nil
}

// parseClassificationJSON decodes a provider JSON payload, tolerating
// markdown code fences around the object.
func parseClassificationJSON(text string) (Classification, error) {
	var payload struct {
		CategoryIDs []string `json:"category_ids"`
		Relevance   int      `json:"relevance"`
		Confidence  float64  `json:"confidence"`
	}

	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		return Classification{}, fmt.Errorf("classification decode failed: %w", ErrMalformedResponse)
	}

	return Classification{
		CategoryIDs: payload.CategoryIDs,
		Relevance:   payload.Relevance,
		Confidence:  payload.Confidence,
	}, nil
}

func parseSummaryJSON(text string) (Summary, error) {
	var payload struct {
		Summary  string `json:"summary"`
		Language string `json:"language"`
	}

	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		return Summary{}, fmt.Errorf("summary decode failed: %w", ErrMalformedResponse)
	}

	return Summary{
		Text:     strings.TrimSpace(payload.Summary),
		Language: strings.ToLower(strings.TrimSpace(payload.Language)),
	}, nil
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
