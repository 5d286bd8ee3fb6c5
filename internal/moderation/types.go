package moderation

import (
	"context"
	"time"
)

type Action string

const (
	ActionAdmit  Action = "admit"
	ActionReject Action = "reject"
)

const (
	ReasonPhone         = "unauthorized phone number"
	ReasonLink          = "unauthorized link"
	ReasonForbiddenWord = "forbidden word"
)

// Verdict is the outcome of evaluating one post. Admitted posts carry the
// mailbox path they should be uploaded to.
type Verdict struct {
	Action     Action
	Target     string
	Reason     string
	Redirected bool
}

func Admit(target string) Verdict { return Verdict{Action: ActionAdmit, Target: target} }

func Reject(reason string) Verdict { return Verdict{Action: ActionReject, Reason: reason} }

func (v Verdict) Admitted() bool { return v.Action == ActionAdmit }

// Decision is a classifier's answer for one text.
type Decision struct {
	Approved bool
	Reason   string
}

// Classifier is the external AI content screen.
type Classifier interface {
	Classify(ctx context.Context, text string) (Decision, error)
}

// MatchMode selects how forbidden words are matched.
type MatchMode string

const (
	// MatchSubstring matches anywhere, including inside longer words.
	MatchSubstring MatchMode = "substring"
	// MatchWord only matches whole words.
	MatchWord MatchMode = "word"
)

// OnError is what the engine does when the classifier fails.
type OnError string

const (
	OnErrorAdmit    OnError = "admit"
	OnErrorRedirect OnError = "redirect"
)

// Rules configures an Engine.
type Rules struct {
	DefaultTarget string
	ReviewTarget  string

	WhitelistedPhones []string
	WhitelistedLinks  []string

	ForbiddenWords []string
	ForbiddenMatch MatchMode
	// RejectForbidden drops posts with forbidden words instead of sending
	// them to the review mailbox.
	RejectForbidden bool

	OnClassifierError OnError
	ClassifierTimeout time.Duration
}
