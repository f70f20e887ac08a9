package core

// CategorySum is an amount and entry count aggregated for one category.
type CategorySum struct {
	CategoryID int64
	Name       string
	Icon       string
	Sum        Money
	Count      int64
}

// MonthSum is an amount and entry count aggregated for one calendar month.
type MonthSum struct {
	Month int // 1-12
	Sum   Money
	Count int64
}
