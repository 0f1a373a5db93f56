package enrich

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Small stop-word lists per supported language; enough signal for short
// video titles and descriptions.
var stopWords = map[string][]string{
	"es": {"el", "la", "los", "las", "de", "del", "en", "con", "por", "para", "que", "una", "contra", "gol", "partido", "resumen"},
	"en": {"the", "a", "an", "of", "in", "on", "with", "for", "and", "that", "this", "match", "against", "highlights"},
	"fr": {"le", "la", "les", "des", "du", "dans", "avec", "pour", "que", "une", "contre", "et", "sur"},
	"pt": {"o", "os", "as", "da", "do", "em", "com", "para", "que", "uma", "contra", "e", "jogo"},
}

// LanguageDetector guesses the language of a short text by scoring it
// against stop-word lists and picking the highest score. Ties break toward
// the configured default.
type LanguageDetector struct {
	defaultLanguage string
}

func NewLanguageDetector(defaultLanguage string) *LanguageDetector {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		tag = language.Spanish
	}
	base, _ := tag.Base()

	return &LanguageDetector{defaultLanguage: base.String()}
}

func (d *LanguageDetector) Detect(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return d.defaultLanguage
	}

	present := make(map[string]bool, len(words))
	for _, word := range words {
		present[strings.Trim(word, ".,:;!?\"'()")] = true
	}

	// Scan languages in a fixed order so equal scores always resolve the
	// same way regardless of map iteration.
	langs := make([]string, 0, len(stopWords))
	for lang := range stopWords {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	best := d.defaultLanguage
	bestScore := 0
	for _, lang := range langs {
		score := 0
		for _, stopWord := range stopWords[lang] {
			if present[stopWord] {
				score++
			}
		}
		if score > bestScore || (score == bestScore && lang == d.defaultLanguage && score > 0) {
			best = lang
			bestScore = score
		}
	}

	return best
}
