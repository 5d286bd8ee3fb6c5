package moderation

import (
	"context"
	"errors"
	"testing"

	"ivrbot/internal/logging"
	"ivrbot/internal/post"
)

const (
	mainBox   = "ivr2:1/"
	reviewBox = "ivr2:95/"
)

type stubClassifier struct {
	decision Decision
	err      error
	calls    int
}

func (s *stubClassifier) Classify(context.Context, string) (Decision, error) {
	s.calls++
	return s.decision, s.err
}

func newEngine(rules Rules, c Classifier) *Engine {
	rules.DefaultTarget = mainBox
	rules.ReviewTarget = reviewBox
	if rules.WhitelistedPhones == nil {
		rules.WhitelistedPhones = []string{"053-419-0216", "050-123-4567"}
	}
	if rules.WhitelistedLinks == nil {
		rules.WhitelistedLinks = []string{"https://t.me/Moshepargod"}
	}
	return NewEngine(rules, c, logging.Discard())
}

func text(s string) post.Post { return post.Post{Text: s} }

func TestWhitelistedPhoneAnyFormatting(t *testing.T) {
	e := newEngine(Rules{}, nil)
	for _, s := range []string{
		"לפרטים 050-123-4567",
		"לפרטים 0501234567",
		"לפרטים 050.123.4567",
		"לפרטים 050 123 4567",
		"053-4190216 או 050-1234567",
	} {
		v := e.Evaluate(context.Background(), text(s))
		if !v.Admitted() || v.Target != mainBox {
			t.Fatalf("%q: expected admit to main box, got %+v", s, v)
		}
	}
}

func TestUnlistedPhoneRejected(t *testing.T) {
	e := newEngine(Rules{}, nil)
	for _, s := range []string{
		"התקשרו 052-999-8888",
		"050-123-4567 וגם 02-6543210",
		"מספר 0771234567",
	} {
		v := e.Evaluate(context.Background(), text(s))
		if v.Action != ActionReject || v.Reason != ReasonPhone {
			t.Fatalf("%q: expected phone rejection, got %+v", s, v)
		}
	}
}

func TestPhoneCheckAppliesToCaption(t *testing.T) {
	e := newEngine(Rules{}, nil)
	p := post.Post{Caption: "052-999-8888", Video: &post.MediaRef{FileID: "v"}}
	if v := e.Evaluate(context.Background(), p); v.Action != ActionReject {
		t.Fatalf("expected rejection, got %+v", v)
	}
}

func TestLinks(t *testing.T) {
	e := newEngine(Rules{}, nil)
	if v := e.Evaluate(context.Background(), text("ראו http://spam.example")); v.Reason != ReasonLink {
		t.Fatalf("expected link rejection, got %+v", v)
	}
	if v := e.Evaluate(context.Background(), text("הצטרפו https://t.me/Moshepargod")); !v.Admitted() {
		t.Fatalf("expected whitelisted link to pass, got %+v", v)
	}
	if v := e.Evaluate(context.Background(), text("www.example.com בלי פרוטוקול")); !v.Admitted() {
		t.Fatalf("expected bare www to pass the link screen, got %+v", v)
	}
}

func TestForbiddenWordSubstringMatchesInsideLongerWord(t *testing.T) {
	e := newEngine(Rules{ForbiddenWords: []string{"Cat"}}, nil)
	v := e.Evaluate(context.Background(), text("the concatenation finished"))
	if !v.Redirected || v.Target != reviewBox {
		t.Fatalf("expected substring hit to redirect, got %+v", v)
	}
}

func TestForbiddenWordWordMode(t *testing.T) {
	e := newEngine(Rules{ForbiddenWords: []string{"cat", "אינסטגרם"}, ForbiddenMatch: MatchWord}, nil)
	if v := e.Evaluate(context.Background(), text("the concatenation finished")); v.Redirected {
		t.Fatalf("word mode must not match inside words, got %+v", v)
	}
	if v := e.Evaluate(context.Background(), text("a CAT, again")); !v.Redirected {
		t.Fatalf("word mode must match whole word, got %+v", v)
	}
	if v := e.Evaluate(context.Background(), text("עקבו באינסטגרם")); v.Redirected {
		t.Fatalf("word mode must not match prefixed word, got %+v", v)
	}
	if v := e.Evaluate(context.Background(), text("עקבו אינסטגרם.")); !v.Redirected {
		t.Fatalf("word mode must match Hebrew word before punctuation, got %+v", v)
	}
}

func TestForbiddenWordReject(t *testing.T) {
	e := newEngine(Rules{ForbiddenWords: []string{"spam"}, RejectForbidden: true}, nil)
	if v := e.Evaluate(context.Background(), text("SPAM here")); v.Action != ActionReject || v.Reason != ReasonForbiddenWord {
		t.Fatalf("expected rejection, got %+v", v)
	}
}

func TestVideoWithTextAlwaysReview(t *testing.T) {
	c := &stubClassifier{decision: Decision{Approved: true}}
	e := newEngine(Rules{}, c)
	p := post.Post{Caption: "חדשות רגילות לגמרי", Video: &post.MediaRef{FileID: "v"}}
	v := e.Evaluate(context.Background(), p)
	if !v.Admitted() || v.Target != reviewBox || !v.Redirected {
		t.Fatalf("expected review box, got %+v", v)
	}
	if c.calls != 0 {
		t.Fatalf("classifier must be skipped for video posts, called %d times", c.calls)
	}
}

func TestMediaOnlyAdmitted(t *testing.T) {
	c := &stubClassifier{}
	e := newEngine(Rules{}, c)
	v := e.Evaluate(context.Background(), post.Post{Audio: &post.MediaRef{FileID: "a"}})
	if !v.Admitted() || v.Target != mainBox || c.calls != 0 {
		t.Fatalf("expected main box without classification, got %+v (calls %d)", v, c.calls)
	}
}

func TestClassifier(t *testing.T) {
	approve := &stubClassifier{decision: Decision{Approved: true}}
	if v := newEngine(Rules{}, approve).Evaluate(context.Background(), text("שלום")); v.Target != mainBox || v.Redirected {
		t.Fatalf("approved text should go to main box, got %+v", v)
	}

	block := &stubClassifier{decision: Decision{Reason: "המילה 'אינסטגרם' אסורה"}}
	v := newEngine(Rules{}, block).Evaluate(context.Background(), text("שלום"))
	if v.Target != reviewBox || !v.Redirected {
		t.Fatalf("blocked text should go to review box, got %+v", v)
	}
}

func TestClassifierFailure(t *testing.T) {
	broken := &stubClassifier{err: errors.New("deadline exceeded")}

	v := newEngine(Rules{}, broken).Evaluate(context.Background(), text("שלום"))
	if !v.Admitted() || v.Target != mainBox {
		t.Fatalf("default policy must fail open, got %+v", v)
	}

	v = newEngine(Rules{OnClassifierError: OnErrorRedirect}, broken).Evaluate(context.Background(), text("שלום"))
	if !v.Admitted() || v.Target != reviewBox {
		t.Fatalf("redirect policy must hold for review, got %+v", v)
	}
}

func TestShortCircuitOrder(t *testing.T) {
	c := &stubClassifier{decision: Decision{Approved: true}}
	e := newEngine(Rules{ForbiddenWords: []string{"x"}}, c)
	v := e.Evaluate(context.Background(), text("x 052-999-8888 http://a.b"))
	if v.Reason != ReasonPhone {
		t.Fatalf("phone screen must run first, got %+v", v)
	}
	if c.calls != 0 {
		t.Fatal("classifier must not run after a rejection")
	}
}
