package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/logging"
	"github.com/JonMunkholm/PropCompare/internal/web/templates"
)

// handleIndex renders the main page. A q parameter sets the search text.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if q, ok := r.URL.Query()["q"]; ok {
		sess.SetQuery(q[0])
	}
	render(w, r, templates.IndexPage(catalogView(sess)))
}

// handleFirmList updates the search text and re-renders the catalog.
func (s *Server) handleFirmList(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.SetQuery(r.URL.Query().Get("q"))
	renderCatalog(w, r, sess)
}

func (s *Server) handleFirmDetail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	id := chi.URLParam(r, "firmID")

	firm, err := sess.FirmDetail(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if isHTMX(r) {
		render(w, r, templates.FirmDetail(firm, sess.IsSelected(id)))
		return
	}
	render(w, r, templates.FirmPage(firm, sess.IsSelected(id)))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	limit := parseIntParam(r, "limit", core.DefaultSuggestionLimit)
	render(w, r, templates.Suggestions(sess.Suggestions(r.URL.Query().Get("q"), limit)))
}

// handleCompare renders the comparison of the selected firms. With
// fresh=1 the catalog is asked for current records first.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var table core.Table
	if r.URL.Query().Get("fresh") == "1" {
		t, err := sess.RemoteComparison(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		table = t
	} else {
		table = sess.Comparison(r.Context())
	}

	if isHTMX(r) {
		render(w, r, templates.CompareTable(table))
		return
	}
	render(w, r, templates.ComparePage(table))
}

func (s *Server) handleApplyFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.ErrValidationRejected)
		return
	}
	criteria, err := core.ParseCriteria(r.PostForm)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	firms, err := sess.ApplyFilters(r.Context(), criteria)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Debug("filters applied", "results", len(firms))

	if !isHTMX(r) {
		redirectBack(w, r)
		return
	}
	renderCatalog(w, r, sess)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ResetFilters(r.Context())
	if !isHTMX(r) {
		redirectBack(w, r)
		return
	}
	renderCatalog(w, r, sess)
}

func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if _, err := sess.Toggle(chi.URLParam(r, "firmID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	if !isHTMX(r) {
		redirectBack(w, r)
		return
	}
	renderCatalog(w, r, sess)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ClearSelection()
	if !isHTMX(r) {
		redirectBack(w, r)
		return
	}
	renderCatalog(w, r, sess)
}
