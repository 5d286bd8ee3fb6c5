// Package hebtime renders clock times as spoken Hebrew.
package hebtime

import (
	"errors"
	"fmt"
	"time"
)

// ErrLookup is returned for an hour or minute outside the lexicon.
var ErrLookup = errors.New("hebtime: no lexical entry")

var hours = [13]string{
	1: "אחת", 2: "שתיים", 3: "שלוש", 4: "ארבע", 5: "חמש", 6: "שש",
	7: "שבע", 8: "שמונה", 9: "תשע", 10: "עשר", 11: "אחת עשרה", 12: "שתים עשרה",
}

var minutes = [60]string{
	"אפס", "ודקה", "ושתי דקות", "ושלוש דקות", "וארבע דקות",
	"וחמש דקות", "ושש דקות", "ושבע דקות", "ושמונה דקות", "ותשע דקות",
	"ועשרה", "ואחת עשרה דקות", "ושתים עשרה דקות", "ושלוש עשרה דקות", "וארבע עשרה דקות",
	"ורבע", "ושש עשרה דקות", "ושבע עשרה דקות", "ושמונה עשרה דקות", "ותשע עשרה דקות",
	"ועשרים", "עשרים ואחת", "עשרים ושתיים", "עשרים ושלוש", "עשרים וארבע",
	"עשרים וחמש", "עשרים ושש", "עשרים ושבע", "עשרים ושמונה", "עשרים ותשע",
	"וחצי", "שלושים ואחת", "שלושים ושתיים", "שלושים ושלוש", "שלושים וארבע",
	"שלושים וחמש", "שלושים ושש", "שלושים ושבע", "שלושים ושמונה", "שלושים ותשע",
	"וארבעים דקות", "ארבעים ואחת", "ארבעים ושתיים", "ארבעים ושלוש", "ארבעים וארבע",
	"ארבעים וחמש", "ארבעים ושש", "ארבעים ושבע", "ארבעים ושמונה", "ארבעים ותשע",
	"וחמישים דקות", "חמישים ואחת", "חמישים ושתיים", "חמישים ושלוש", "חמישים וארבע",
	"חמישים וחמש", "חמישים ושש", "חמישים ושבע", "חמישים ושמונה", "חמישים ותשע",
}

// Phrase renders hour (0-23) and minute (0-59) on a 12-hour clock.
func Phrase(hour, minute int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: hour %d", ErrLookup, hour)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("%w: minute %d", ErrLookup, minute)
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return hours[h] + " " + minutes[minute], nil
}

// At renders t in its own location.
func At(t time.Time) string {
	s, _ := Phrase(t.Hour(), t.Minute())
	return s
}
