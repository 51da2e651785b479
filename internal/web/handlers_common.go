package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/logging"
	"github.com/JonMunkholm/PropCompare/internal/web/templates"
)

// maxFormBytes bounds filter submissions.
const maxFormBytes = 16 << 10

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// render writes an HTML component. Headers are already sent when rendering
// fails, so the error is only logged.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "path", r.URL.Path, "error", err)
	}
}

// catalogView snapshots what the catalog section shows for sess.
func catalogView(sess *core.Session) templates.CatalogView {
	stats, ok := sess.Statistics()
	return templates.CatalogView{
		Firms:      sess.Visible(),
		Selected:   sess.SelectedFirms(),
		Query:      sess.Query(),
		Criteria:   sess.Criteria(),
		Statistics: stats,
		HasStats:   ok,
	}
}

// renderCatalog answers HTMX swaps with the catalog section and full page
// loads with the index page.
func renderCatalog(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	v := catalogView(sess)
	if isHTMX(r) {
		render(w, r, templates.CatalogSection(v))
		return
	}
	render(w, r, templates.IndexPage(v))
}

// redirectBack sends non-HTMX form posts back to where they came from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if ref := r.Referer(); ref != "" {
		target = ref
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
