// Package templates holds the HTML components of the web front end.
//
// Components are templ.Component values so handlers render them the same
// way whether they are full pages or HTMX partials. Text served by the
// catalog passes through a strict bluemonday policy before it is written.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// remoteText strips all markup from catalog-supplied text and escapes the
// remainder.
var remoteText = bluemonday.StrictPolicy()

// writer accumulates the first write error so component bodies can stay
// linear.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// text writes s HTML-escaped.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

// remote writes catalog text with markup removed.
func (w *writer) remote(s string) {
	w.raw(remoteText.Sanitize(s))
}

func (w *writer) int(n int) {
	w.raw(strconv.Itoa(n))
}

// component renders c inline.
func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func attr(s string) string {
	return templ.EscapeString(s)
}

func safeURL(s string) string {
	return templ.EscapeString(string(templ.URL(s)))
}
