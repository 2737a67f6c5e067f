package prompt

import (
	"strings"
	"testing"
)

func TestGreetingFallbackVerbatim(t *testing.T) {
	if Greeting("Klingon") != Greeting("English") {
		t.Fatal("unrecognized language must fall back to the English template verbatim")
	}
	if !strings.HasPrefix(Greeting("Slovak"), "Dobrý deň") {
		t.Fatalf("Slovak greeting=%q", Greeting("Slovak"))
	}
}

func TestSystemEmbedsLanguage(t *testing.T) {
	s := System("German")
	if !strings.Contains(s, "Use **German** for ALL interaction") {
		t.Fatalf("language policy missing: %q", s[:200])
	}
	if !strings.Contains(s, "All values in German") {
		t.Fatal("final output contract must localize values")
	}
	if !strings.Contains(s, `"chief_complaint"`) {
		t.Fatal("JSON structure missing")
	}
	if strings.Contains(s, "%[1]s") || strings.Contains(s, "%!") {
		t.Fatal("unexpanded placeholder")
	}
}

func TestSystemDefaultsLanguage(t *testing.T) {
	if !strings.Contains(System(""), "Use **English** for ALL interaction") {
		t.Fatal("empty language must default to English")
	}
}

func TestWithContextOmitsEmptySections(t *testing.T) {
	base := "base prompt"
	if got := WithContext(base, "", ""); got != base {
		t.Fatalf("got %q, want base only", got)
	}
	got := WithContext(base, "diabetes type 2", "")
	if !strings.Contains(got, "Patient medical history") || strings.Contains(got, "guideline excerpts") {
		t.Fatalf("got %q", got)
	}
	got = WithContext(base, "", "chunk one\n\nchunk two")
	if strings.Contains(got, "medical history") || !strings.Contains(got, "Relevant guideline excerpts") {
		t.Fatalf("got %q", got)
	}
	got = WithContext(base, "asthma", "chunk")
	hi := strings.Index(got, "Patient medical history")
	gi := strings.Index(got, "Relevant guideline excerpts")
	if !strings.HasPrefix(got, base) || hi == -1 || gi == -1 || hi > gi {
		t.Fatalf("section order wrong: %q", got)
	}
}
