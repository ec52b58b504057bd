package domain

import "github.com/shopspring/decimal"

// FinanceSummary aggregates transaction totals for the dashboard.
type FinanceSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategoryAmount is the expense total of one category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
