// model/stats.go
package model

import "time"

type CirculationStats struct {
	Checkouts      int64 `json:"checkouts"`
	Returns        int64 `json:"returns"`
	OverdueReturns int64 `json:"overdue_returns"`
	ActiveLoans    int64 `json:"active_loans"`
	CurrentOverdue int64 `json:"current_overdue"`
}

type BookCensus struct {
	Total             int64   `json:"total"`
	Available         int64   `json:"available"`
	Borrowed          int64   `json:"borrowed"`
	Missing           int64   `json:"missing"`
	WeedingCandidates int64   `json:"weeding_candidates"`
	CollectionValue   float64 `json:"collection_value"`
}

// WeeklySummary is the immutable rollup snapshot the weekly sweep stores.
type WeeklySummary struct {
	TotalCheckouts   int64     `json:"total_checkouts"`
	TotalReturns     int64     `json:"total_returns"`
	OverdueReturns   int64     `json:"overdue_returns"`
	CurrentlyOverdue int64     `json:"currently_overdue"`
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// MonthlySummary additionally covers collection health: weeding candidates
// are books unborrowed for 180+ days.
type MonthlySummary struct {
	TotalBooks           int64     `json:"total_books"`
	AvailableBooks       int64     `json:"available_books"`
	BorrowedBooks        int64     `json:"borrowed_books"`
	MissingBooks         int64     `json:"missing_books"`
	MonthlyCheckouts     int64     `json:"monthly_checkouts"`
	MonthlyReturns       int64     `json:"monthly_returns"`
	WeedingCandidates    int64     `json:"weeding_candidates"`
	TotalCollectionValue float64   `json:"total_collection_value"`
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
	GeneratedAt          time.Time `json:"generated_at"`
}
