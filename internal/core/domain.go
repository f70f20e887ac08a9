package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// MinYear and MaxYear bound the years accepted for budgets and reports.
	MinYear = 2000
	MaxYear = 2100

	// MaxDescriptionLen bounds the optional free-text on an expense.
	MaxDescriptionLen = 500
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNotFound        = errors.New("not found")
	ErrNameConflict    = errors.New("name already in use")
	ErrEmptyName       = errors.New("empty name")
	ErrDescriptionSize = errors.New("description too long")
)

type (
	// User is an account that owns expenses, custom categories and budgets.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Category is either a global default (OwnerID nil) visible to everyone,
	// or a custom category owned by a single user. Names are unique among
	// the defaults and within one owner's customs.
	Category struct {
		ID        int64
		Name      string
		Icon      string
		IsDefault bool
		OwnerID   *int64
	}

	// Expense is a single ledger entry. Amount is always positive; identity
	// is immutable while amount, category, date and description may change.
	Expense struct {
		ID          int64
		OwnerID     int64
		CategoryID  int64
		Amount      Money
		Date        time.Time
		Description string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Budget is the spending limit for one owner and calendar month.
	// At most one row exists per (owner, month, year).
	Budget struct {
		ID        int64
		OwnerID   int64
		Month     int
		Year      int
		Amount    Money
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Period identifies a calendar month for aggregation.
	Period struct {
		Month int
		Year  int
	}
)

// CurrentPeriod returns the period for the current calendar month.
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Month: int(now.Month()), Year: now.Year()}
}

// Validate checks the 1-12 month range and the configured year bounds.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

// ValidateYear checks a bare year against the configured bounds.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Description) > MaxDescriptionLen {
		return ErrDescriptionSize
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (b Budget) Validate() error {
	if err := (Period{Month: b.Month, Year: b.Year}).Validate(); err != nil {
		return err
	}
	return b.Amount.Validate()
}
