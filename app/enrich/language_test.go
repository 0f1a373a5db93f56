package enrich

import "testing"

func TestDetectLanguage(t *testing.T) {
	detector := NewLanguageDetector("es")

	tests := []struct {
		name string
		text string
		want string
	}{
		{"spanish title", "Resumen del partido contra el Sevilla", "es"},
		{"english title", "Highlights of the match against Sevilla", "en"},
		{"french title", "Les buts du match contre Seville", "fr"},
		{"no signal falls back", "Griezmann Oblak Simeone", "es"},
		{"empty text falls back", "", "es"},
		{"punctuation stripped", "El resumen, con los goles!", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectLanguageTieIsDeterministic(t *testing.T) {
	detector := NewLanguageDetector("es")

	// "the" scores English, "les" scores French; neither is the default, so
	// the first language in sorted order must win every time.
	for i := 0; i < 50; i++ {
		if got := detector.Detect("the les"); got != "en" {
			t.Fatalf("Detect tie resolved to '%s' on run %d, want 'en'", got, i)
		}
	}
}

func TestNewLanguageDetectorCanonicalizesTag(t *testing.T) {
	// Region subtags collapse to the base language.
	detector := NewLanguageDetector("es-MX")
	if got := detector.Detect(""); got != "es" {
		t.Errorf("Expected canonical base 'es', got '%s'", got)
	}

	// An unparseable tag falls back to Spanish.
	detector = NewLanguageDetector("???")
	if got := detector.Detect(""); got != "es" {
		t.Errorf("Expected fallback 'es' for invalid tag, got '%s'", got)
	}
}
