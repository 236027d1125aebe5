package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const defaultLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body>
{{.Content}}
</body>
</html>
`

// RenderResult holds both bodies of a rendered message.
type RenderResult struct {
	HTML string
	Text string
}

// Renderer turns a markdown body into an HTML part and a plain text part.
// Bodies are text/template strings executed with caller data before
// conversion, so "{{.Sender}}" style placeholders work.
// The converted HTML is sanitized before it is placed into the layout.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	layout *template.Template

	// Parsed bodies keyed by source.
	cache map[string]*texttemplate.Template
	mu    sync.RWMutex
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer) error

// WithLayout replaces the HTML layout. The layout receives .Subject and .Content.
func WithLayout(src string) RendererOption {
	return func(r *Renderer) error {
		t, err := template.New("layout").Parse(src)
		if err != nil {
			return fmt.Errorf("%w: parse layout: %v", ErrRenderFailed, err)
		}
		r.layout = t
		return nil
	}
}

// WithPolicy replaces the HTML sanitization policy.
func WithPolicy(p *bluemonday.Policy) RendererOption {
	return func(r *Renderer) error {
		if p != nil {
			r.policy = p
		}
		return nil
	}
}

// NewRenderer creates a renderer with the default layout and the UGC policy.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		),
		policy: bluemonday.UGCPolicy(),
		layout: template.Must(template.New("layout").Parse(defaultLayout)),
		cache:  make(map[string]*texttemplate.Template),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render executes body with data and converts the result.
func (r *Renderer) Render(subject, body string, data any) (*RenderResult, error) {
	tmpl, err := r.parse(body)
	if err != nil {
		return nil, err
	}

	var text bytes.Buffer
	if err := tmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: execute body: %v", ErrRenderFailed, err)
	}

	var converted bytes.Buffer
	if err := r.md.Convert(text.Bytes(), &converted); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	var html bytes.Buffer
	err = r.layout.Execute(&html, map[string]any{
		"Subject": subject,
		"Content": template.HTML(r.policy.SanitizeBytes(converted.Bytes())),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		HTML: html.String(),
		Text: strings.TrimSpace(text.String()) + "\n",
	}, nil
}

func (r *Renderer) parse(body string) (*texttemplate.Template, error) {
	r.mu.RLock()
	t, ok := r.cache[body]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[body]; ok {
		return t, nil
	}

	t, err := texttemplate.New("body").Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse body: %v", ErrRenderFailed, err)
	}
	r.cache[body] = t
	return t, nil
}
