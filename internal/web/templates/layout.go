package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(` · PropCompare</title>`)
		// Error responses carry an alert fragment; htmx must swap them too.
		w.raw(`<meta name="htmx-config" content='{"responseHandling":[{"code":"204","swap":false},{"code":"[2345]..","swap":true}]}'>`)
		w.raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		w.raw(`</head><body><header><a href="/">PropCompare</a> <a href="/compare">Compare</a></header>`)
		w.raw(`<div id="alerts" aria-live="polite"></div><main>`)
		w.component(ctx, body)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// ErrorAlert renders a dismissible error message with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="alert alert-error" role="alert"><strong>`)
		w.text(message)
		w.raw(`</strong>`)
		if action != "" {
			w.raw(` <span>`)
			w.text(action)
			w.raw(`</span>`)
		}
		if code != "" {
			w.raw(` <code>`)
			w.text(code)
			w.raw(`</code>`)
		}
		w.raw(`<button type="button" onclick="this.parentElement.remove()" aria-label="Dismiss">×</button></div>`)
		return w.err
	})
}

// StatsBar shows the catalog aggregates. It renders nothing when the
// statistics could not be loaded.
func StatsBar(st core.Statistics, ok bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if !ok {
			return nil
		}
		w := &writer{w: out}
		w.raw(`<dl class="stats"><dt>Firms</dt><dd>`)
		w.int(st.TotalFirms)
		w.raw(`</dd><dt>Average split</dt><dd>`)
		w.text(formatPercent(st.AvgProfitSplit))
		w.raw(`</dd><dt>Average rating</dt><dd>`)
		w.text(formatRating(st.AvgRating))
		w.raw(`</dd><dt>Lowest fee</dt><dd>`)
		w.text(core.FormatUSD(st.LowestEvaluationFee))
		w.raw(`</dd><dt>Most popular platform</dt><dd>`)
		w.remote(st.MostPopularPlatform)
		w.raw(`</dd></dl>`)
		return w.err
	})
}

// Suggestions renders search suggestions as a datalist.
func Suggestions(names []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<datalist id="firm-suggestions">`)
		for _, n := range names {
			w.raw(`<option value="`)
			w.raw(attr(n))
			w.raw(`"></option>`)
		}
		w.raw(`</datalist>`)
		return w.err
	})
}
