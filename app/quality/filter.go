package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/golazo-tv/golazo/app/sources"
)

type exclusionPattern struct {
	term    string
	pattern *regexp.Regexp
	// Compiled unless_any patterns; nil for unconditional exclusions.
	unless []*regexp.Regexp
}

// Filter is a pure predicate over candidates. All matching is
// case-insensitive and word-boundary anchored.
type Filter struct {
	policy        *Policy
	exclusions    []exclusionPattern
	allowChannels map[string]bool
}

func NewFilter(policy *Policy) *Filter {
	allowed := make(map[string]bool, len(policy.AllowChannels))
	for _, id := range policy.AllowChannels {
		allowed[id] = true
	}

	ruled := make(map[string]bool, len(policy.Disambiguations))
	var exclusions []exclusionPattern

	for _, rule := range policy.Disambiguations {
		ruled[strings.ToLower(rule.Term)] = true
		unless := make([]*regexp.Regexp, 0, len(rule.UnlessAny))
		for _, keyword := range rule.UnlessAny {
			unless = append(unless, wordPattern(keyword))
		}
		exclusions = append(exclusions, exclusionPattern{
			term:    rule.Term,
			pattern: wordPattern(rule.Term),
			unless:  unless,
		})
	}

	for _, term := range policy.Exclusions {
		// A disambiguation rule supersedes the plain exclusion for the same term.
		if ruled[strings.ToLower(term)] {
			continue
		}
		exclusions = append(exclusions, exclusionPattern{
			term:    term,
			pattern: wordPattern(term),
		})
	}

	return &Filter{
		policy:        policy,
		exclusions:    exclusions,
		allowChannels: allowed,
	}
}

// IsAcceptable reports whether the candidate passes the quality policy, with
// a human-readable reason when it does not. View floors apply to every
// candidate; allow-listed channels bypass keyword filtering only.
// relevanceKeywords are the source adapter's own heuristics, re-applied here
// as a uniform secondary pass: when non-empty, at least one must appear in
// the candidate's text.
func (f *Filter) IsAcceptable(c sources.Candidate, relevanceKeywords []string) (bool, string) {
	floor := f.policy.MinViewsFor(string(c.Platform))
	if c.ViewCount < floor {
		return false, fmt.Sprintf("view count %d below %s floor %d", c.ViewCount, c.Platform, floor)
	}

	if f.allowChannels[c.ChannelExternalID] {
		return true, ""
	}

	text := c.Title + " " + c.Description

	if len(relevanceKeywords) > 0 && !containsAnyFold(text, relevanceKeywords) {
		return false, "no relevance keyword match"
	}

	for _, exclusion := range f.exclusions {
		if !exclusion.pattern.MatchString(text) {
			continue
		}
		if exclusion.matchesAnyUnless(text) {
			continue
		}
		return false, fmt.Sprintf("excluded term '%s'", exclusion.term)
	}

	return true, ""
}

func (e exclusionPattern) matchesAnyUnless(text string) bool {
	for _, pattern := range e.unless {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func containsAnyFold(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\b`)
}
