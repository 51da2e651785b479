package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/PropCompare/internal/core"
)

// CatalogView is everything the catalog section shows for one session.
type CatalogView struct {
	Firms      []core.Firm
	Selected   []core.Firm
	Query      string
	Criteria   core.FilterCriteria
	Statistics core.Statistics
	HasStats   bool
}

// IsSelected reports whether id is in the comparison.
func (v CatalogView) IsSelected(id string) bool {
	for _, f := range v.Selected {
		if f.ID == id {
			return true
		}
	}
	return false
}

// IndexPage is the main page: statistics, filters, search and results.
func IndexPage(v CatalogView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.component(ctx, StatsBar(v.Statistics, v.HasStats))
		w.component(ctx, FilterForm(v.Criteria))
		w.raw(`<input type="search" name="q" placeholder="Search firms" list="firm-suggestions" value="`)
		w.raw(attr(v.Query))
		w.raw(`" hx-get="/firms" hx-trigger="input changed delay:250ms, search" hx-target="#catalog" hx-swap="outerHTML">`)
		w.raw(`<div id="suggestions"></div>`)
		w.component(ctx, CatalogSection(v))
		return w.err
	})
	return Layout("Browse firms", body)
}

// CatalogSection is the swappable region holding the selection bar and the
// firm list. Every filter, search and selection action re-renders it.
func CatalogSection(v CatalogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<section id="catalog">`)
		w.component(ctx, SelectionBar(v.Selected))
		w.raw(`<p class="result-count">`)
		w.int(len(v.Firms))
		if len(v.Firms) == 1 {
			w.raw(` firm`)
		} else {
			w.raw(` firms`)
		}
		w.raw(`</p><ul class="firm-list">`)
		for _, f := range v.Firms {
			w.component(ctx, FirmCard(f, v.IsSelected(f.ID), len(v.Selected) >= core.MaxSelection))
		}
		w.raw(`</ul></section>`)
		return w.err
	})
}

// FirmCard is one row of the firm list with its compare toggle.
func FirmCard(f core.Firm, selected, selectionFull bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<li class="firm-card" id="firm-`)
		w.raw(attr(f.ID))
		w.raw(`"><h3><a href="/firms/`)
		w.raw(attr(f.ID))
		w.raw(`">`)
		w.remote(f.Name)
		w.raw(`</a></h3><p>`)
		w.remote(f.Description)
		w.raw(`</p><ul class="facts"><li>Split `)
		w.int(f.ProfitSplit.Trader())
		w.raw(`/`)
		w.int(f.ProfitSplit.Firm())
		w.raw(`</li><li>From `)
		w.text(core.FormatUSD(f.MinAccountSize))
		w.raw(`</li><li>`)
		w.text(f.PayoutFrequency.Label())
		w.raw(` payouts</li><li>Rating `)
		w.text(formatRating(f.Rating))
		w.raw(`</li></ul>`)

		label := "Add to compare"
		disabled := ""
		if selected {
			label = "Remove from compare"
		} else if selectionFull {
			disabled = ` disabled title="Comparison is full"`
		}
		w.raw(`<button type="button" hx-post="/selection/`)
		w.raw(attr(f.ID))
		w.raw(`" hx-target="#catalog" hx-swap="outerHTML"`)
		w.raw(disabled)
		w.raw(`>`)
		w.text(label)
		w.raw(`</button></li>`)
		return w.err
	})
}

// SelectionBar lists the selected firms in selection order.
func SelectionBar(selected []core.Firm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div id="selection-bar"><span>Comparing `)
		w.int(len(selected))
		w.raw(` of `)
		w.int(core.MaxSelection)
		w.raw(`</span>`)
		for _, f := range selected {
			w.raw(`<span class="chip">`)
			w.remote(f.Name)
			w.raw(`</span>`)
		}
		if len(selected) > 0 {
			w.raw(`<a href="/compare">Compare</a>`)
			w.raw(`<button type="button" hx-post="/selection/clear" hx-target="#catalog" hx-swap="outerHTML">Clear</button>`)
		}
		w.raw(`</div>`)
		return w.err
	})
}

// FilterForm renders the criteria inputs. Unset criteria render as empty
// inputs or "Any" options.
func FilterForm(c core.FilterCriteria) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<form id="filters" hx-post="/filters" hx-target="#catalog" hx-swap="outerHTML">`)

		numberInput(w, "Min account size", core.ParamMinAccountSize, intValue(c.MinAccountSize), "1000")
		numberInput(w, "Max account size", core.ParamMaxAccountSize, intValue(c.MaxAccountSize), "1000")
		numberInput(w, "Min profit split %", core.ParamMinProfitSplit, intValue(c.MinProfitSplit), "1")
		numberInput(w, "Min rating", core.ParamMinRating, floatValue(c.MinRating), "0.1")

		w.raw(`<label>Platform <input type="text" name="`)
		w.raw(core.ParamPlatform)
		w.raw(`" value="`)
		if c.Platform != nil {
			w.raw(attr(*c.Platform))
		}
		w.raw(`"></label>`)

		w.raw(`<label>Payout frequency <select name="`)
		w.raw(core.ParamPayoutFrequency)
		w.raw(`"><option value="">Any</option>`)
		for _, pf := range core.PayoutFrequencies {
			w.raw(`<option value="`)
			w.raw(attr(string(pf)))
			w.raw(`"`)
			if c.PayoutFrequency != nil && *c.PayoutFrequency == pf {
				w.raw(` selected`)
			}
			w.raw(`>`)
			w.text(pf.Label())
			w.raw(`</option>`)
		}
		w.raw(`</select></label>`)

		triState(w, "News trading", core.ParamNewsTrading, c.NewsTrading)
		triState(w, "Expert advisors", core.ParamExpertAdvisors, c.ExpertAdvisors)
		triState(w, "Scaling plan", core.ParamScalingPlan, c.ScalingPlan)

		w.raw(`<button type="submit">Apply filters</button>`)
		w.raw(`<button type="button" hx-post="/filters/reset" hx-target="#catalog" hx-swap="outerHTML">Reset</button>`)
		w.raw(`</form>`)
		return w.err
	})
}

func numberInput(w *writer, label, name, value, step string) {
	w.raw(`<label>`)
	w.text(label)
	w.raw(` <input type="number" min="0" step="`)
	w.raw(step)
	w.raw(`" name="`)
	w.raw(name)
	w.raw(`" value="`)
	w.raw(attr(value))
	w.raw(`"></label>`)
}

// triState renders a boolean criterion as Any / Yes / No so that "No" stays
// distinguishable from unset.
func triState(w *writer, label, name string, v *bool) {
	w.raw(`<label>`)
	w.text(label)
	w.raw(` <select name="`)
	w.raw(name)
	w.raw(`">`)
	option := func(value, text string, selected bool) {
		w.raw(`<option value="`)
		w.raw(value)
		w.raw(`"`)
		if selected {
			w.raw(` selected`)
		}
		w.raw(`>`)
		w.raw(text)
		w.raw(`</option>`)
	}
	option("", "Any", v == nil)
	option("true", "Yes", v != nil && *v)
	option("false", "No", v != nil && !*v)
	w.raw(`</select></label>`)
}

func intValue(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatValue(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

func formatRating(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func joinRemote(items []string) string {
	clean := make([]string, 0, len(items))
	for _, it := range items {
		clean = append(clean, remoteText.Sanitize(it))
	}
	return strings.Join(clean, ", ")
}
