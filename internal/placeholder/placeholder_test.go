package placeholder_test

import (
	"reflect"
	"testing"

	"github.com/valpere/tlumach/internal/placeholder"
)

func TestProtect(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		count int
	}{
		{"plain text", "Hello, world!", "Hello, world!", 0},
		{"html tags", "<p>Hello <b>world</b></p>", "[#0]Hello [#1]world[#2][#3]", 4},
		{"inline code", "Run `go test` now", "Run [#0] now", 1},
		{"fenced code", "Before\n```\ncode\n```\nAfter", "Before\n[#0]\nAfter", 1},
		{"url keeps sentence period", "See https://example.com/docs.", "See [#0].", 1},
		{"email", "Write to a.b@example.org today", "Write to [#0] today", 1},
		{"comparison is not a tag", "a < b and c > d", "a < b and c > d", 0},
		{"unspaced comparison is not a tag", "a<b and c>d", "a<b and c>d", 0},
		{"self-closing tags", `Line<br/>next <img src="a.png" alt=logo />`, "Line[#0]next [#1]", 2},
		{"tag with url attribute", `Visit <a href="https://x.io">site</a> or mail me@x.io`, "Visit [#0]site[#1] or mail [#2]", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := placeholder.Protect(tt.text)
			if s.Text != tt.want {
				t.Errorf("Text = %q, want %q", s.Text, tt.want)
			}
			if s.Len() != tt.count {
				t.Errorf("Len() = %d, want %d", s.Len(), tt.count)
			}
		})
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	original := "Open <b>https://example.com</b> and run `make`."
	s := placeholder.Protect(original)

	if got := s.Restore(s.Text); got != original {
		t.Errorf("round-trip failed:\n got  %q\n want %q", got, original)
	}
}

func TestRestore_ToleratesSpacing(t *testing.T) {
	s := placeholder.Protect("Mail ops@example.com now")

	got := s.Restore("Envoyez [ # 0 ] maintenant")
	if got != "Envoyez ops@example.com maintenant" {
		t.Errorf("unexpected restore: %q", got)
	}
}

func TestRestore_UnknownIndexKept(t *testing.T) {
	s := placeholder.Protect("see https://a.io")

	got := s.Restore("[#0] [#7]")
	if got != "https://a.io [#7]" {
		t.Errorf("unexpected restore: %q", got)
	}
}

func TestProtect_ExistingTokensDisableShield(t *testing.T) {
	text := "Item [#3] costs <b>5</b>"
	s := placeholder.Protect(text)

	if s.Text != text || s.Len() != 0 {
		t.Fatalf("expected text untouched, got %q (%d)", s.Text, s.Len())
	}
	if got := s.Restore("Artikel [#3]"); got != "Artikel [#3]" {
		t.Errorf("restore must not touch pre-existing tokens, got %q", got)
	}
}

func TestMissing(t *testing.T) {
	s := placeholder.Protect("<i>a</i> b")

	if missing := s.Missing("[#0]a[#1] b"); missing != nil {
		t.Errorf("expected nothing missing, got %v", missing)
	}
	if missing := s.Missing("[#0]a b"); !reflect.DeepEqual(missing, []int{1}) {
		t.Errorf("expected [1] missing, got %v", missing)
	}
}
