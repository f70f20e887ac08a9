package http

import "net/http"

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	summary, err := s.reports.MonthlySummary(r.Context(), ownerFromContext(r.Context()), period.Month, period.Year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReportByCategory(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	breakdown, err := s.reports.CategoryBreakdown(r.Context(), ownerFromContext(r.Context()), period.Month, period.Year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleReportTrend(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := s.reports.MonthlyTrend(r.Context(), ownerFromContext(r.Context()), year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}
