package quality

import (
	"os"
	"path/filepath"
	"testing"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policy.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write policy file: %v", err)
	}
	return path
}

func TestLoadPolicyDefaults(t *testing.T) {
	path := writePolicyFile(t, `
exclusions:
  - gameplay
categories:
  - id: highlights
    keywords: ["resumen", "goles"]
`)

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}

	if policy.DefaultMinViews != 1000 {
		t.Errorf("Expected default min views 1000, got %d", policy.DefaultMinViews)
	}
	if policy.DefaultLanguage != "es" {
		t.Errorf("Expected default language 'es', got '%s'", policy.DefaultLanguage)
	}
	if got := policy.MinViewsFor("youtube"); got != 1000 {
		t.Errorf("Expected fallback floor 1000 for youtube, got %d", got)
	}
}

func TestLoadPolicyKeywordTable(t *testing.T) {
	path := writePolicyFile(t, `
categories:
  - id: highlights
    keywords: ["resumen"]
  - id: press
    keywords: ["rueda de prensa", "entrevista"]
`)

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}

	ids := policy.CategoryIDs()
	if len(ids) != 2 || ids[0] != "highlights" || ids[1] != "press" {
		t.Errorf("Unexpected category ids: %v", ids)
	}

	table := policy.KeywordTable()
	if len(table["press"]) != 2 {
		t.Errorf("Expected 2 press keywords, got %v", table["press"])
	}
}

func TestLoadPolicyValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative floor", "default_min_views: -5"},
		{"duplicate category", "categories:\n  - id: a\n  - id: a"},
		{"disambiguation without unless_any", "disambiguations:\n  - term: rival"},
		{"search query missing platform", "search_queries:\n  - query: atleti"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePolicyFile(t, tt.content)
			if _, err := LoadPolicy(path); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	if _, err := LoadPolicy("/nonexistent/policy.yml"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
