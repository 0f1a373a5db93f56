package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

var (
	_ Classifier = (*OpenAI)(nil)
	_ Summarizer = (*OpenAI)(nil)
)

func NewOpenAI(endpoint, apiKey, model string) *OpenAI {
	return &OpenAI{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Classify(ctx context.Context, title, description string, categoryIDs []string) (Classification, error) {
	prompt := fmt.Sprintf(classifyPromptTemplate, strings.Join(categoryIDs, ", "), title, description)

	text, err := o.complete(ctx, prompt)
	if err != nil {
		return Classification{}, err
	}

	return parseClassificationJSON(text)
}

func (o *OpenAI) Summarize(ctx context.Context, title, description string) (Summary, error) {
	prompt := fmt.Sprintf(summarizePromptTemplate, title, description)

	text, err := o.complete(ctx, prompt)
	if err != nil {
		return Summary{}, err
	}

	return parseSummaryJSON(text)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" || o.endpoint == "" || o.model == "" {
		return "", fmt.Errorf("openai provider misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal openai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("openai decode failed: %w", ErrMalformedResponse)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion: %w", ErrMalformedResponse)
	}

	return completion.Choices[0].Message.Content, nil
}
