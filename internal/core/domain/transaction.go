package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether money left or entered the household.
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// Transaction is a single expense or income entry.
// Amount is always positive; Type carries the sign semantics.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"` // calendar date, time part is zero
	Person        string          `json:"person"`
	MemberID      *string         `json:"memberID,omitempty"`
	PaymentMethod *string         `json:"paymentMethod,omitempty"`
	Location      *string         `json:"location,omitempty"`
	Timestamps
}
