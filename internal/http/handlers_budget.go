package http

import (
	"net/http"

	"spendtrack/internal/core"
)

type budgetStatusResponse struct {
	Month     int         `json:"month"`
	Year      int         `json:"year"`
	Spent     core.Money  `json:"spent"`
	Amount    *core.Money `json:"amount,omitempty"`
	Remaining *core.Money `json:"remaining,omitempty"`
}

type upsertBudgetRequest struct {
	Month  int        `json:"month"`
	Year   int        `json:"year"`
	Amount core.Money `json:"amount"`
}

type budgetResponse struct {
	ID     int64      `json:"id"`
	Month  int        `json:"month"`
	Year   int        `json:"year"`
	Amount core.Money `json:"amount"`
}

// handleGetBudget reports the period's spend against its budget. The amount
// and remaining fields are absent when no budget is configured, which is not
// the same thing as a zero budget.
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	ownerID := ownerFromContext(r.Context())
	summary, err := s.reports.MonthlySummary(r.Context(), ownerID, period.Month, period.Year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, budgetStatusResponse{
		Month:     period.Month,
		Year:      period.Year,
		Spent:     summary.TotalSpent,
		Amount:    summary.BudgetAmount,
		Remaining: summary.BudgetRemaining,
	})
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req upsertBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	budget, err := s.budgets.Upsert(r.Context(), ownerFromContext(r.Context()), req.Month, req.Year, req.Amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, budgetResponse{
		ID:     budget.ID,
		Month:  budget.Month,
		Year:   budget.Year,
		Amount: budget.Amount,
	})
}
