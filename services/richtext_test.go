package services

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestRenderer() *RichTextRenderer {
	return NewRichTextRenderer(zap.NewNop())
}

func TestRenderStripsScriptTags(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("<script>alert(1)</script>hello")
	if strings.Contains(out, "<script") {
		t.Fatalf("script tag survived sanitization: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("surrounding text lost: %q", out)
	}
}

func TestRenderDropsJavascriptHref(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("[link](javascript:alert(1))")
	if strings.Contains(out, "javascript:") {
		t.Fatalf("javascript URI survived sanitization: %q", out)
	}
}

func TestRenderRewritesExternalLinks(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("[site](https://example.com)")
	if !strings.Contains(out, `href="https://example.com"`) {
		t.Fatalf("link lost: %q", out)
	}
	if !strings.Contains(out, `target="_blank"`) {
		t.Fatalf("missing target=_blank: %q", out)
	}
	if !strings.Contains(out, "noopener") || !strings.Contains(out, "noreferrer") {
		t.Fatalf("rel does not prevent opener/referrer access: %q", out)
	}
}

func TestRenderStripsEventHandlerAttributes(t *testing.T) {
	r := newTestRenderer()
	out := r.Render(`<p onclick="alert(1)">click me</p>`)
	if strings.Contains(out, "onclick") {
		t.Fatalf("event handler attribute survived: %q", out)
	}
	if !strings.Contains(out, "click me") {
		t.Fatalf("text content lost: %q", out)
	}
}

func TestRenderMarkdownStructure(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("**Empfehlung**\nMehr Bewegung.\n\n- Wasser trinken\n- Schlaf")
	if !strings.Contains(out, "<strong>") {
		t.Fatalf("emphasis missing: %q", out)
	}
	if !strings.Contains(out, "<br") {
		t.Fatalf("hard line break missing: %q", out)
	}
	if !strings.Contains(out, "<li>") {
		t.Fatalf("list missing: %q", out)
	}
}

func TestRenderNeverPanicsOnMalformedInput(t *testing.T) {
	r := newTestRenderer()
	inputs := []string{
		"",
		"[broken](",
		"****",
		"> > > ``` unclosed",
		"<div><span>unclosed",
		strings.Repeat("*", 1000),
	}
	for _, in := range inputs {
		_ = r.Render(in) // darf nicht panicen
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	r := newTestRenderer()
	inputs := []string{
		"<p>plain</p>",
		`<a href="https://example.com">x</a><script>alert(1)</script>`,
		"<em>fine</em><iframe src=\"https://evil\"></iframe>",
	}
	for _, in := range inputs {
		once := r.Sanitize(in)
		twice := r.Sanitize(once)
		if once != twice {
			t.Fatalf("sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
