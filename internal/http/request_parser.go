package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendtrack/internal/core"
)

// parsePeriod extracts month and year from query parameters, defaulting to
// the current calendar month, and validates the ranges. Malformed numbers
// and out-of-range values are both core.ErrInvalidPeriod territory; callers
// translate that to a 400 before any aggregation runs.
func parsePeriod(r *http.Request) (core.Period, error) {
	p := core.CurrentPeriod()

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, core.ErrInvalidMonth
		}
		p.Month = m
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, core.ErrInvalidYear
		}
		p.Year = y
	}

	if err := p.Validate(); err != nil {
		return core.Period{}, err
	}
	return p, nil
}

// parseYear extracts the year for the trend report, defaulting to the
// current year.
func parseYear(r *http.Request) (int, error) {
	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, core.ErrInvalidYear
		}
		year = y
	}
	if err := core.ValidateYear(year); err != nil {
		return 0, err
	}
	return year, nil
}

// parsePathID reads the {id} path segment as a positive integer.
func parsePathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// parseDate parses an expense date in YYYY-MM-DD format.
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
