package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates markup and remembers the first write error.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewWriter wraps w for a single render pass.
func NewWriter(ctx context.Context, w io.Writer) *Writer {
	return &Writer{ctx: ctx, w: w}
}

// Raw writes trusted markup as-is.
func (p *Writer) Raw(markup string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, markup)
}

// Text writes HTML-escaped text.
func (p *Writer) Text(value string) {
	p.Raw(templ.EscapeString(value))
}

// URL writes a sanitised, escaped URL for use inside an attribute.
func (p *Writer) URL(value string) {
	p.Text(string(templ.URL(value)))
}

// Render renders a nested component. Nil components are skipped.
func (p *Writer) Render(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

// Err returns the first error encountered.
func (p *Writer) Err() error {
	return p.err
}

// Func adapts a writer callback into a templ component.
func Func(fn func(p *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := NewWriter(ctx, w)
		fn(p)
		return p.Err()
	})
}

// Fragment renders components one after another.
func Fragment(parts ...templ.Component) templ.Component {
	return Func(func(p *Writer) {
		for _, part := range parts {
			p.Render(part)
		}
	})
}
