package moderation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	phoneRe  = regexp.MustCompile(`0\d{1,2}[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkRe   = regexp.MustCompile(`https?://`)
	nonDigit = regexp.MustCompile(`\D`)
)

type phoneScreen struct {
	allowed map[string]struct{}
}

func newPhoneScreen(whitelist []string) phoneScreen {
	allowed := make(map[string]struct{}, len(whitelist))
	for _, p := range whitelist {
		if d := digits(p); d != "" {
			allowed[d] = struct{}{}
		}
	}
	return phoneScreen{allowed: allowed}
}

func digits(s string) string { return nonDigit.ReplaceAllString(s, "") }

// unauthorized returns the first phone-shaped number in text that is not
// whitelisted, ignoring separators on both sides.
func (s phoneScreen) unauthorized(text string) (string, bool) {
	for _, m := range phoneRe.FindAllString(text, -1) {
		if _, ok := s.allowed[digits(m)]; !ok {
			return m, true
		}
	}
	return "", false
}

type linkScreen struct {
	allowed []string
}

// blocks reports whether text carries a link and none of the whitelisted ones.
func (s linkScreen) blocks(text string) bool {
	if !linkRe.MatchString(text) {
		return false
	}
	for _, a := range s.allowed {
		if a != "" && strings.Contains(text, a) {
			return false
		}
	}
	return true
}

type wordList struct {
	words []string
	mode  MatchMode
}

func newWordList(words []string, mode MatchMode) wordList {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	if mode == "" {
		mode = MatchSubstring
	}
	return wordList{words: out, mode: mode}
}

// match returns the first listed word found in text. In substring mode a
// short entry also matches inside unrelated longer words.
func (l wordList) match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range l.words {
		if l.mode == MatchWord {
			if containsWord(lower, w) {
				return w, true
			}
			continue
		}
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

func containsWord(text, word string) bool {
	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
