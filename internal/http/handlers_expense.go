package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

type expenseRequest struct {
	Amount      core.Money `json:"amount"`
	CategoryID  int64      `json:"categoryId"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
}

type expenseResponse struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"categoryId"`
	Amount      core.Money `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type expensePage struct {
	Items []expenseResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (req expenseRequest) toExpense(ownerID int64) (core.Expense, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		OwnerID:     ownerID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
	}, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := req.toExpense(ownerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	created, err := s.expenses.CreateExpense(r.Context(), expense)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	expense, err := s.repo.GetExpense(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseExpenseFilter(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items, total, err := s.repo.ListExpenses(r.Context(), ownerFromContext(r.Context()), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}
	page := expensePage{
		Items: make([]expenseResponse, 0, len(items)),
		Total: total,
		Page:  filter.Page,
		Size:  size,
	}
	for _, e := range items {
		page.Items = append(page.Items, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := req.toExpense(ownerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	expense.ID = id

	updated, err := s.expenses.UpdateExpense(r.Context(), expense)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseExpenseFilter(r *http.Request) (storage.ExpenseFilter, error) {
	var filter storage.ExpenseFilter
	query := r.URL.Query()

	if v := strings.TrimSpace(query.Get("categoryId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return filter, core.ErrNotFound
		}
		filter.CategoryID = id
	}
	if v := strings.TrimSpace(query.Get("startDate")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = t
	}
	if v := strings.TrimSpace(query.Get("endDate")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.EndDate = t
	}
	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if v := strings.TrimSpace(query.Get("size")); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 && s <= 100 {
			filter.Size = s
		}
	}
	return filter, nil
}
