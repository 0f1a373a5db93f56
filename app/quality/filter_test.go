package quality

import (
	"testing"

	"github.com/golazo-tv/golazo/app/sources"
)

func testPolicy() *Policy {
	return &Policy{
		DefaultMinViews: 1000,
		MinViews:        map[string]int64{"twitch": 200},
		Exclusions:      []string{"gameplay", "fifa 2", "real madrid"},
		Disambiguations: []DisambiguationRule{
			{Term: "real madrid", UnlessAny: []string{"atletico", "atleti", "derbi", "vs"}},
		},
		AllowChannels:   []string{"UC-official"},
		DefaultLanguage: "es",
	}
}

func candidate(title string, views int64) sources.Candidate {
	return sources.Candidate{
		Platform:          sources.PlatformYouTube,
		ExternalID:        "vid-1",
		Title:             title,
		ChannelExternalID: "UC-random",
		ViewCount:         views,
	}
}

func TestIsAcceptableViewFloor(t *testing.T) {
	filter := NewFilter(testPolicy())

	ok, reason := filter.IsAcceptable(candidate("Atletico resumen", 999), nil)
	if ok {
		t.Error("Expected candidate below view floor to be rejected")
	}
	if reason == "" {
		t.Error("Expected a rejection reason")
	}

	if ok, _ := filter.IsAcceptable(candidate("Atletico resumen", 1000), nil); !ok {
		t.Error("Expected candidate at the view floor to be accepted")
	}
}

func TestIsAcceptablePerPlatformFloor(t *testing.T) {
	filter := NewFilter(testPolicy())

	c := candidate("Atleti clip", 250)
	c.Platform = sources.PlatformTwitch

	if ok, reason := filter.IsAcceptable(c, nil); !ok {
		t.Errorf("Expected twitch candidate above its own floor to pass, got: %s", reason)
	}
}

func TestIsAcceptableExclusions(t *testing.T) {
	filter := NewFilter(testPolicy())

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"clean title", "Atletico de Madrid vs Sevilla highlights", true},
		{"excluded term", "FIFA 26 Atletico gameplay", false},
		{"multi-word exclusion", "fifa 2 career mode", false},
		{"word boundary not substring", "gameplays is not a word we ban", true},
		{"case insensitive", "GAMEPLAY completo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := filter.IsAcceptable(candidate(tt.title, 5000), nil)
			if ok != tt.want {
				t.Errorf("IsAcceptable(%q) = %v (%s), want %v", tt.title, ok, reason, tt.want)
			}
		})
	}
}

func TestIsAcceptableDisambiguation(t *testing.T) {
	filter := NewFilter(testPolicy())

	// The rival's name alone rejects the candidate.
	if ok, _ := filter.IsAcceptable(candidate("Real Madrid entrenamiento", 5000), nil); ok {
		t.Error("Expected rival-only title to be rejected")
	}

	// A derby title escapes through unless_any.
	if ok, reason := filter.IsAcceptable(candidate("Atletico vs Real Madrid resumen del derbi", 5000), nil); !ok {
		t.Errorf("Expected derby title to be accepted, got: %s", reason)
	}

	// The escape keyword can appear in the description too.
	c := candidate("Real Madrid reaccion", 5000)
	c.Description = "Reaccion del vestuario atletico tras el partido"
	if ok, reason := filter.IsAcceptable(c, nil); !ok {
		t.Errorf("Expected description keyword to rescue the candidate, got: %s", reason)
	}
}

func TestIsAcceptableRelevanceKeywords(t *testing.T) {
	filter := NewFilter(testPolicy())
	keywords := []string{"atletico", "atleti"}

	// Without any adapter keyword in the text, the candidate is irrelevant.
	ok, reason := filter.IsAcceptable(candidate("Resumen de la jornada en Primera", 5000), keywords)
	if ok {
		t.Error("Expected candidate without relevance keywords to be rejected")
	}
	if reason == "" {
		t.Error("Expected a rejection reason")
	}

	// Keyword match is case-insensitive and may sit in the description.
	c := candidate("Resumen de la jornada", 5000)
	c.Description = "Los goles del ATLETI"
	if ok, reason := filter.IsAcceptable(c, keywords); !ok {
		t.Errorf("Expected description keyword to satisfy relevance, got: %s", reason)
	}

	// No keywords means no relevance constraint.
	if ok, reason := filter.IsAcceptable(candidate("Resumen de la jornada", 5000), nil); !ok {
		t.Errorf("Expected candidate to pass without a keyword list, got: %s", reason)
	}

	// Allow-listed channels bypass the relevance pass like any keyword check.
	c = candidate("Resumen de la jornada", 5000)
	c.ChannelExternalID = "UC-official"
	if ok, reason := filter.IsAcceptable(c, keywords); !ok {
		t.Errorf("Expected allow-listed channel to bypass relevance keywords, got: %s", reason)
	}
}

func TestIsAcceptableAllowChannelBypass(t *testing.T) {
	filter := NewFilter(testPolicy())

	c := candidate("Real Madrid gameplay", 5000)
	c.ChannelExternalID = "UC-official"
	if ok, reason := filter.IsAcceptable(c, nil); !ok {
		t.Errorf("Expected allow-listed channel to bypass keyword exclusions, got: %s", reason)
	}

	// Allow-listing never bypasses the view floor.
	c.ViewCount = 10
	if ok, _ := filter.IsAcceptable(c, nil); ok {
		t.Error("Expected allow-listed channel below the view floor to be rejected")
	}
}
