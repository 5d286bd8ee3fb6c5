package classifier

import (
	"errors"
	"fmt"
	"strings"

	"ivrbot/internal/moderation"
)

// ErrMalformed is returned when the model answers outside the protocol.
var ErrMalformed = errors.New("classifier: malformed answer")

// DefaultInstructions is used when no instruction file is configured.
const DefaultInstructions = "סווג את ההודעה הבאה. השב APPROVE אם היא הולמת ו-BLOCK אם לא."

const noReason = "סיבה לא פורטה"

// BuildPrompt wraps the operator's instructions and the post text with the
// fixed answer protocol.
func BuildPrompt(instructions, text string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("הטקסט לבדיקה: %q\n\n", text))
	sb.WriteString("הוראות מתן תשובה (קריטי):\n")
	sb.WriteString("1. אם ההודעה תקינה ומותרת לשידור, השב רק במילה אחת: APPROVE\n")
	sb.WriteString("2. אם ההודעה מכילה תוכן בעייתי, השב בפורמט הבא בדיוק: BLOCK: [כתוב כאן את המילה או המשפט הבעייתי]\n")
	sb.WriteString("   לדוגמה: BLOCK: המילה 'אינסטגרם' אסורה\n")
	return sb.String()
}

// ParseAnswer maps a model answer to a decision. BLOCK and REJECT are both
// accepted as the rejection token.
func ParseAnswer(answer string) (moderation.Decision, error) {
	a := strings.TrimSpace(answer)
	a = strings.Trim(a, "`*\"' ")
	upper := strings.ToUpper(a)
	switch {
	case strings.HasPrefix(upper, "APPROVE"):
		return moderation.Decision{Approved: true}, nil
	case strings.HasPrefix(upper, "BLOCK"), strings.HasPrefix(upper, "REJECT"):
		reason := noReason
		if _, after, ok := strings.Cut(a, ":"); ok && strings.TrimSpace(after) != "" {
			reason = strings.TrimSpace(after)
		}
		return moderation.Decision{Reason: reason}, nil
	default:
		return moderation.Decision{}, fmt.Errorf("%w: %q", ErrMalformed, answer)
	}
}
