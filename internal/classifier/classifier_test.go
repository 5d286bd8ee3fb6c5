package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
)

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		in       string
		approved bool
		reason   string
	}{
		{"APPROVE", true, ""},
		{"  approve\n", true, ""},
		{"**APPROVE**", true, ""},
		{"BLOCK: המילה 'אינסטגרם' אסורה", false, "המילה 'אינסטגרם' אסורה"},
		{"REJECT: promo", false, "promo"},
		{"BLOCK", false, noReason},
	}
	for _, tc := range cases {
		d, err := ParseAnswer(tc.in)
		if err != nil {
			t.Fatalf("ParseAnswer(%q): %v", tc.in, err)
		}
		if d.Approved != tc.approved || d.Reason != tc.reason {
			t.Fatalf("ParseAnswer(%q) = %+v", tc.in, d)
		}
	}

	if _, err := ParseAnswer("I think this is fine"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("  הוראות  ", "טקסט")
	if !strings.HasPrefix(p, "הוראות\n\n") {
		t.Fatalf("instructions must lead the prompt: %q", p)
	}
	if !strings.Contains(p, `"טקסט"`) || !strings.Contains(p, "APPROVE") || !strings.Contains(p, "BLOCK:") {
		t.Fatalf("prompt missing parts: %q", p)
	}
}

func TestNewWithoutKeyDisablesScreen(t *testing.T) {
	c, err := New(context.Background(), Settings{Provider: "gemini"})
	if err != nil || c != nil {
		t.Fatalf("expected nil classifier, got %v %v", c, err)
	}
	if _, err := New(context.Background(), Settings{Provider: "nope", APIKey: "k", Model: "m"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func TestOpenAIClassify(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":0,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"BLOCK: קישור"}}]}`)
	}))
	defer srv.Close()

	c, err := NewOpenAI(Settings{Model: "m", APIKey: "k", BaseURL: srv.URL, Instructions: "inst"}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.Classify(context.Background(), "שלום")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if d.Approved || d.Reason != "קישור" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if !strings.Contains(gotBody, "inst") {
		t.Fatalf("request did not carry instructions: %s", gotBody)
	}
}

func TestOpenAIClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewOpenAI(Settings{Model: "m", APIKey: "k", BaseURL: srv.URL}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}
