package http

import (
	"net/http"
	"strings"

	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardView(d))
}

// handleCashFlow serves the daily series. start, end and seed override the
// session window and the configured opening balance.
func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, err := parseRange(q, s.session.DateRange())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	seed, err := parseCents(q, "seed", s.session.CashFlowSeed())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}

	series, err := s.session.CashFlowFor(r.Context(), window, seed)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handlePlanning(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Planning(r.Context())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanningView(p))
}

// handleCategories lists the static category table, optionally narrowed
// to one transaction type.
func handleCategories(w http.ResponseWriter, r *http.Request) {
	t := core.TransactionType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
	if t == "" {
		writeJSON(w, http.StatusOK, core.Categories())
		return
	}
	if !t.IsValid() {
		writeError(w, r, log.OpList, badRequest("unknown transaction type %q", t))
		return
	}
	writeJSON(w, http.StatusOK, core.CategoriesFor(t))
}
