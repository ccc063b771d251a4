package validation

import (
	"strings"
	"testing"
)

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		want     string
		wantCode string
	}{
		{name: "lowercases and strips accents", in: "CURSO-COM-MAIÚSCULAS", want: "curso-com-maiusculas"},
		{name: "trims surrounding whitespace", in: "  algebra-linear  ", want: "algebra-linear"},
		{name: "passes through canonical input", in: "curso-01", want: "curso-01"},
		{name: "rejects inner spaces", in: "curso com espacos", wantCode: "invalid-slug"},
		{name: "rejects underscores", in: "curso_basico", wantCode: "invalid-slug"},
		{name: "rejects empty", in: "", wantCode: "empty-slug"},
		{name: "rejects whitespace only", in: "   ", wantCode: "empty-slug"},
		{name: "rejects over 100 chars", in: strings.Repeat("a", 101), wantCode: "slug-too-long"},
		{name: "accepts exactly 100 chars", in: strings.Repeat("a", 100), want: strings.Repeat("a", 100)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, issue := NormalizeSlug(tc.in)
			if tc.wantCode != "" {
				if issue == nil {
					t.Fatalf("expected issue %q, got slug %q", tc.wantCode, got)
				}
				if issue.Code != tc.wantCode {
					t.Fatalf("expected code %q, got %q", tc.wantCode, issue.Code)
				}
				return
			}
			if issue != nil {
				t.Fatalf("unexpected issue: %v", issue)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
