package render_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/render"
)

func TestSanitizeText_StripsMarkup(t *testing.T) {
	got := render.SanitizeText("  <script>alert(1)</script>Enter <b>name</b> & age ")
	if got != "Enter name & age" {
		t.Fatalf("unexpected sanitised text %q", got)
	}
	if render.SanitizeText("   ") != "" {
		t.Fatalf("expected blank input to stay empty")
	}
}

func TestSanitizeMarkup_KeepsAllowedElements(t *testing.T) {
	got := render.SanitizeMarkup(`<p onclick="x()">Read the <a href="https://example.org/guide">guide</a></p><script>x()</script>`)

	for _, banned := range []string{"<script", "onclick"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %q removed, got %q", banned, got)
		}
	}
	for _, kept := range []string{"<p>", `href="https://example.org/guide"`, "guide</a>"} {
		if !strings.Contains(got, kept) {
			t.Fatalf("expected %q kept, got %q", kept, got)
		}
	}
}
