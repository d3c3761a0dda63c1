package services

import (
	"bytes"
	stdhtml "html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// RichTextRenderer wandelt AI-generierten Markdown-Text in sicheres HTML
// für die Anzeige im Dashboard um. Schritt 1 ist die strukturelle
// Transformation (Markdown -> HTML-Fragment), Schritt 2 die Sanitisierung
// über eine Allow-List. Schritt 2 läuft bei jedem Aufruf, auch für
// vermeintlich vertrauenswürdigen Inhalt.
type RichTextRenderer struct {
	Logger *zap.Logger
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRichTextRenderer erstellt einen neuen Renderer.
func NewRichTextRenderer(logger *zap.Logger) *RichTextRenderer {
	// WithHardWraps: einzelne Zeilenumbrüche werden zu <br>, so liefert der
	// Recommender seinen Text. WithUnsafe lässt rohes HTML durch; die
	// Policy dahinter ist die einzige Instanz, die entscheidet, was in den
	// DOM darf.
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("target").OnElements("a")
	policy.RequireNoReferrerOnLinks(true)
	// Erzwingt target="_blank" samt rel="noopener" auf allen qualifizierten
	// Links, unabhängig davon, was der Quelltext vorgibt.
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &RichTextRenderer{
		Logger: logger,
		md:     md,
		policy: policy,
	}
}

// Render liefert ein sanitisiertes HTML-Fragment. Die Funktion gibt niemals
// einen Fehler zurück: nicht parsebarer Markdown degradiert zu escaptem
// Klartext, unbekannte Tags und Attribute werden stillschweigend entfernt.
func (r *RichTextRenderer) Render(raw string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(raw), &buf); err != nil {
		r.Logger.Warn("Markdown conversion failed, falling back to plain text", zap.Error(err))
		buf.Reset()
		buf.WriteString("<p>")
		buf.WriteString(stdhtml.EscapeString(raw))
		buf.WriteString("</p>")
	}
	return r.Sanitize(buf.String())
}

// Sanitize wendet die Allow-List-Policy auf ein HTML-Fragment an.
// Idempotent: Sanitize(Sanitize(h)) == Sanitize(h).
func (r *RichTextRenderer) Sanitize(fragment string) string {
	return r.policy.Sanitize(fragment)
}
