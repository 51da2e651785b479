package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

// ComparePage shows the comparison table on its own page.
func ComparePage(t core.Table) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>Compare firms</h1>`)
		w.component(ctx, CompareTable(t))
		return w.err
	})
	return Layout("Compare", body)
}

// CompareTable renders one column per firm and one row per attribute.
// Best cells carry the "best" class.
func CompareTable(t core.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(t.Columns) == 0 {
			w.raw(`<p class="empty">Select up to `)
			w.int(core.MaxSelection)
			w.raw(` firms to compare them side by side.</p>`)
			return w.err
		}

		w.raw(`<table id="comparison"><thead><tr><th scope="col"></th>`)
		for _, c := range t.Columns {
			w.raw(`<th scope="col"><a href="/firms/`)
			w.raw(attr(c.ID))
			w.raw(`">`)
			w.remote(c.Name)
			w.raw(`</a></th>`)
		}
		w.raw(`</tr></thead><tbody>`)
		for _, row := range t.Rows {
			w.raw(`<tr data-key="`)
			w.raw(attr(row.Key))
			w.raw(`"><th scope="row">`)
			w.text(row.Label)
			w.raw(`</th>`)
			for i, v := range row.Values {
				if row.Highlight[i] {
					w.raw(`<td class="best">`)
				} else {
					w.raw(`<td>`)
				}
				w.text(v)
				w.raw(`</td>`)
			}
			w.raw(`</tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
}

// FirmDetail is the quick view of one firm.
func FirmDetail(f core.Firm, selected bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<article class="firm-detail" id="firm-detail-`)
		w.raw(attr(f.ID))
		w.raw(`"><h1>`)
		w.remote(f.Name)
		w.raw(`</h1>`)
		if f.WebsiteURL != "" {
			w.raw(`<a rel="noopener noreferrer" target="_blank" href="`)
			w.raw(safeURL(f.WebsiteURL))
			w.raw(`">Website</a>`)
		}
		w.raw(`<p>`)
		w.remote(f.Description)
		w.raw(`</p><dl>`)

		fact := func(label, value string) {
			w.raw(`<dt>`)
			w.text(label)
			w.raw(`</dt><dd>`)
			w.text(value)
			w.raw(`</dd>`)
		}
		fact("Rating", formatRating(f.Rating))
		fact("Account sizes", core.FormatUSD(f.MinAccountSize)+" – "+core.FormatUSD(f.MaxAccountSize))
		fact("Payout frequency", f.PayoutFrequency.Label())
		fact("Minimum payout", core.FormatUSD(f.MinimumPayout))
		if f.Headquarters != "" {
			fact("Headquarters", f.Headquarters)
		}

		w.raw(`<dt>Platforms</dt><dd>`)
		w.raw(joinRemote(f.TradingPlatforms))
		w.raw(`</dd>`)
		if len(f.Instruments) > 0 {
			w.raw(`<dt>Instruments</dt><dd>`)
			w.raw(joinRemote(f.Instruments))
			w.raw(`</dd>`)
		}

		if f.EvaluationFee.Len() > 0 {
			w.raw(`<dt>Evaluation fees</dt><dd><ul>`)
			for _, tier := range f.EvaluationFee.Tiers() {
				w.raw(`<li>`)
				w.remote(tier.Tier)
				w.raw(`: `)
				w.text(core.FormatUSD(tier.Fee))
				w.raw(`</li>`)
			}
			w.raw(`</ul></dd>`)
		}
		w.raw(`</dl>`)

		list := func(title string, items []string) {
			if len(items) == 0 {
				return
			}
			w.raw(`<h2>`)
			w.text(title)
			w.raw(`</h2><ul>`)
			for _, it := range items {
				w.raw(`<li>`)
				w.remote(it)
				w.raw(`</li>`)
			}
			w.raw(`</ul>`)
		}
		list("Pros", f.Pros)
		list("Cons", f.Cons)

		label := "Add to compare"
		if selected {
			label = "Remove from compare"
		}
		w.raw(`<form method="post" action="/selection/`)
		w.raw(attr(f.ID))
		w.raw(`"><button type="submit">`)
		w.text(label)
		w.raw(`</button></form></article>`)
		return w.err
	})
}

// FirmPage wraps FirmDetail in the layout.
func FirmPage(f core.Firm, selected bool) templ.Component {
	return Layout(f.Name, FirmDetail(f, selected))
}
