// Package moderation decides whether a channel post is broadcast, held for
// review or dropped.
package moderation

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"ivrbot/internal/post"
)

// Engine evaluates posts against the configured rules. Screens run in a
// fixed order and stop at the first rejection.
type Engine struct {
	rules      Rules
	phones     phoneScreen
	links      linkScreen
	words      wordList
	classifier Classifier
	logger     *log.Logger
}

// NewEngine builds an engine. classifier may be nil, which disables the AI
// screen.
func NewEngine(rules Rules, classifier Classifier, logger *log.Logger) *Engine {
	if rules.ReviewTarget == "" {
		rules.ReviewTarget = rules.DefaultTarget
	}
	if rules.OnClassifierError == "" {
		rules.OnClassifierError = OnErrorAdmit
	}
	return &Engine{
		rules:      rules,
		phones:     newPhoneScreen(rules.WhitelistedPhones),
		links:      linkScreen{allowed: rules.WhitelistedLinks},
		words:      newWordList(rules.ForbiddenWords, rules.ForbiddenMatch),
		classifier: classifier,
		logger:     logger,
	}
}

func (e *Engine) Evaluate(ctx context.Context, p post.Post) Verdict {
	text := p.Body()
	if strings.TrimSpace(text) == "" {
		return Admit(e.rules.DefaultTarget)
	}

	if num, found := e.phones.unauthorized(text); found {
		e.logger.Info("rejected: phone number not whitelisted", "number", num)
		return Reject(ReasonPhone)
	}
	if e.links.blocks(text) {
		e.logger.Info("rejected: link not whitelisted")
		return Reject(ReasonLink)
	}

	if w, found := e.words.match(text); found {
		if e.rules.RejectForbidden {
			e.logger.Info("rejected: forbidden word", "word", w)
			return Reject(ReasonForbiddenWord)
		}
		e.logger.Info("forbidden word, holding for review", "word", w, "target", e.rules.ReviewTarget)
		return e.redirect(ReasonForbiddenWord + ": " + w)
	}

	if p.HasVideo() {
		e.logger.Info("video with text, holding for review", "target", e.rules.ReviewTarget)
		return e.redirect("video with text")
	}

	return e.classify(ctx, text)
}

func (e *Engine) classify(ctx context.Context, text string) Verdict {
	if e.classifier == nil {
		return Admit(e.rules.DefaultTarget)
	}
	if e.rules.ClassifierTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.rules.ClassifierTimeout)
		defer cancel()
	}

	d, err := e.classifier.Classify(ctx, text)
	if err != nil {
		if e.rules.OnClassifierError == OnErrorRedirect {
			e.logger.Warn("classifier failed, holding for review", "err", err)
			return e.redirect("classifier unavailable")
		}
		e.logger.Warn("classifier failed, admitting", "err", err)
		return Admit(e.rules.DefaultTarget)
	}
	if !d.Approved {
		e.logger.Info("classifier blocked, holding for review", "reason", d.Reason, "target", e.rules.ReviewTarget)
		return e.redirect("classifier: " + d.Reason)
	}
	return Admit(e.rules.DefaultTarget)
}

func (e *Engine) redirect(reason string) Verdict {
	v := Admit(e.rules.ReviewTarget)
	v.Redirected = true
	v.Reason = reason
	return v
}
