// Package textnorm prepares channel post text for speech synthesis.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
)

var (
	urlRe        = regexp.MustCompile(`https?://\S+`)
	wwwRe        = regexp.MustCompile(`www\.\S+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}.,!?()\x{0590}-\x{05FF}]`)
	spaceRe      = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Normalizer strips promotional phrases, links and unspeakable characters.
type Normalizer struct {
	phrases []string
}

// New builds a Normalizer. Phrases are removed longest first so a phrase
// contained in a longer one cannot leave fragments of the longer one behind.
func New(phrases []string) *Normalizer {
	seen := make(map[string]struct{}, len(phrases))
	sorted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i])) > len([]rune(sorted[j]))
	})
	return &Normalizer{phrases: sorted}
}

// Normalize is total and idempotent.
func (n *Normalizer) Normalize(text string) string {
	// Removing a phrase can splice its neighbours into a new occurrence, so
	// repeat until nothing changes.
	for {
		before := text
		for _, p := range n.phrases {
			text = strings.ReplaceAll(text, p, "")
		}
		text = urlRe.ReplaceAllString(text, "")
		text = wwwRe.ReplaceAllString(text, "")
		text = disallowedRe.ReplaceAllString(text, "")
		text = spaceRe.ReplaceAllString(text, " ")
		if text == before {
			break
		}
	}
	return strings.TrimSpace(text)
}
