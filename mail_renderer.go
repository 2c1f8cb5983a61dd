package actions

import (
	"bytes"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// MailRenderer renders a named mail template twice: once from its .txt
// variant and once from its .html variant, so every message ships both
// bodies.
type MailRenderer struct {
	text *django.Engine
	html *django.Engine
}

// NewMailRenderer loads paired templates from dir, e.g.
// emails/confirm.txt + emails/confirm.html rendered as "emails/confirm".
func NewMailRenderer(dir string) *MailRenderer {
	return &MailRenderer{
		text: django.New(dir, ".txt"),
		html: django.New(dir, ".html"),
	}
}

// Load parses both template sets. Call once before rendering.
func (r *MailRenderer) Load() error {
	if err := r.text.Load(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load text mail templates")
	}

	if err := r.html.Load(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load html mail templates")
	}

	return nil
}

// Render produces the text and HTML bodies for the named template.
func (r *MailRenderer) Render(name string, data map[string]any) (string, string, error) {
	var buf bytes.Buffer

	if err := r.text.Render(&buf, name, data); err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render text mail body").
			WithMetadata(map[string]any{"template": name})
	}
	textBody := buf.String()

	buf.Reset()
	if err := r.html.Render(&buf, name, data); err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render html mail body").
			WithMetadata(map[string]any{"template": name})
	}

	return textBody, buf.String(), nil
}
