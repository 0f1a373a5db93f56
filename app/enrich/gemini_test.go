package enrich

import (
	"errors"
	"testing"
)

func TestParseClassificationJSON(t *testing.T) {
	result, err := parseClassificationJSON(`{"category_ids": ["highlights"], "relevance": 82, "confidence": 0.91}`)
	if err != nil {
		t.Fatalf("parseClassificationJSON failed: %v", err)
	}

	if len(result.CategoryIDs) != 1 || result.CategoryIDs[0] != "highlights" {
		t.Errorf("Unexpected categories: %v", result.CategoryIDs)
	}
	if result.Relevance != 82 || result.Confidence != 0.91 {
		t.Errorf("Unexpected scores: %d/%g", result.Relevance, result.Confidence)
	}
}

func TestParseClassificationJSONCodeFences(t *testing.T) {
	fenced := "```json\n{\"category_ids\": [], \"relevance\": 10, \"confidence\": 0.2}\n```"

	result, err := parseClassificationJSON(fenced)
	if err != nil {
		t.Fatalf("Expected fenced JSON to parse: %v", err)
	}
	if result.Relevance != 10 {
		t.Errorf("Unexpected relevance: %d", result.Relevance)
	}
}

func TestParseClassificationJSONMalformed(t *testing.T) {
	_, err := parseClassificationJSON("I think this video is about highlights")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseSummaryJSON(t *testing.T) {
	result, err := parseSummaryJSON(`{"summary": " Victoria del Atleti en el derbi. ", "language": "ES"}`)
	if err != nil {
		t.Fatalf("parseSummaryJSON failed: %v", err)
	}

	if result.Text != "Victoria del Atleti en el derbi." {
		t.Errorf("Expected trimmed text, got '%s'", result.Text)
	}
	if result.Language != "es" {
		t.Errorf("Expected lowercased language, got '%s'", result.Language)
	}
}
