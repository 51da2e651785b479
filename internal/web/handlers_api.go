package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/store"
)

// SessionState is the JSON view of a session.
type SessionState struct {
	SessionID  string              `json:"sessionId"`
	Criteria   core.FilterCriteria `json:"criteria"`
	Query      string              `json:"query"`
	TotalFirms int                 `json:"totalFirms"`
	Firms      []core.Firm         `json:"firms"`
	Selected   []string            `json:"selected"`
	Statistics *core.Statistics    `json:"statistics,omitempty"`
}

func stateOf(sess *core.Session) SessionState {
	st := SessionState{
		SessionID:  sess.ID,
		Criteria:   sess.Criteria(),
		Query:      sess.Query(),
		TotalFirms: len(sess.FullCatalog()),
		Firms:      sess.Visible(),
		Selected:   sess.SelectedIDs(),
	}
	if stats, ok := sess.Statistics(); ok {
		st.Statistics = &stats
	}
	return st
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, stateOf(sessionFrom(r.Context())))
}

// handleAPIFirms returns the visible list. A q parameter replaces the
// search text first.
func (s *Server) handleAPIFirms(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if q, ok := r.URL.Query()["q"]; ok {
		sess.SetQuery(q[0])
	}
	writeJSON(w, r, http.StatusOK, sess.Visible())
}

func (s *Server) handleAPIFirm(w http.ResponseWriter, r *http.Request) {
	firm, err := sessionFrom(r.Context()).FirmDetail(r.Context(), chi.URLParam(r, "firmID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, firm)
}

// handleAPIStatistics returns the snapshot taken at bootstrap, or 204 when
// the catalog did not provide one.
func (s *Server) handleAPIStatistics(w http.ResponseWriter, r *http.Request) {
	stats, ok := sessionFrom(r.Context()).Statistics()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// handleAPIApplyFilters accepts criteria as a JSON object or as form values
// using the catalog's query keys.
func (s *Server) handleAPIApplyFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	criteria, err := decodeCriteria(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := sess.ApplyFilters(r.Context(), criteria); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stateOf(sess))
}

func decodeCriteria(w http.ResponseWriter, r *http.Request) (core.FilterCriteria, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var c core.FilterCriteria
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return core.FilterCriteria{}, fmt.Errorf("%w: %v", core.ErrValidationRejected, err)
		}
		return c, nil
	}

	if err := r.ParseForm(); err != nil {
		return core.FilterCriteria{}, fmt.Errorf("%w: %v", core.ErrValidationRejected, err)
	}
	return core.ParseCriteria(r.Form)
}

func (s *Server) handleAPIResetFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ResetFilters(r.Context())
	writeJSON(w, r, http.StatusOK, stateOf(sess))
}

func (s *Server) handleAPIToggleSelection(w http.ResponseWriter, r *http.Request) {
	ids, err := sessionFrom(r.Context()).Toggle(chi.URLParam(r, "firmID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"selected": ids})
}

func (s *Server) handleAPIClearSelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ClearSelection()
	writeJSON(w, r, http.StatusOK, map[string]any{"selected": sess.SelectedIDs()})
}

func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if r.URL.Query().Get("fresh") == "1" {
		table, err := sess.RemoteComparison(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, table)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.Comparison(r.Context()))
}

func (s *Server) handleAPISuggestions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	limit := parseIntParam(r, "limit", core.DefaultSuggestionLimit)
	names := sess.Suggestions(r.URL.Query().Get("q"), limit)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"suggestions": names})
}

// handleActivity lists recent activity, newest first. Filters: kind,
// session, since (RFC 3339) and limit.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.RecentOptions{
		Kind:      core.ActivityKind(q.Get("kind")),
		SessionID: q.Get("session"),
		Limit:     parseIntParam(r, "limit", s.cfg.Activity.RecentLimit),
	}
	if ceiling := s.cfg.Activity.RecentLimit; ceiling > 0 && opts.Limit > ceiling {
		opts.Limit = ceiling
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: since %q is not RFC 3339", core.ErrValidationRejected, raw))
			return
		}
		opts.Since = since
	}

	entries, err := s.activity.Recent(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
