package ai

import "testing"

func TestFallback_DefaultEcho(t *testing.T) {
	f := NewFallback()
	got := f.Reply("what is the airspeed of an unladen swallow")
	want := "You said: what is the airspeed of an unladen swallow"
	if got != want {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestFallback_KeywordCaseInsensitive(t *testing.T) {
	f := NewFallback()
	a := f.Reply("HELLO computer")
	b := f.Reply("hello computer")
	if a != b {
		t.Fatalf("case changed the reply: %q vs %q", a, b)
	}
	if a == "You said: HELLO computer" {
		t.Fatalf("keyword rule did not match")
	}
}

func TestFallback_FirstRuleWins(t *testing.T) {
	f := NewFallback(
		Rule{Keyword: "alpha", Reply: "first"},
		Rule{Keyword: "beta", Reply: "second"},
	)
	if got := f.Reply("beta then alpha"); got != "first" {
		t.Fatalf("expected declaration order to win, got %q", got)
	}
}

func TestFallback_SpecificRuleBeforeGeneric(t *testing.T) {
	f := NewFallback()
	// "how are you" is declared before "hello" so it wins on overlap
	got := f.Reply("hello, how are you?")
	want := f.Reply("how are you")
	if got != want {
		t.Fatalf("overlapping keywords resolved inconsistently: %q vs %q", got, want)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("one two three four"); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
}
