package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"id"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"` // numeric(12,2), always positive
	Type          string          `db:"type"`
	Category      string          `db:"category"`
	Date          time.Time       `db:"date"`
	Person        string          `db:"person"`
	MemberID      sql.NullString  `db:"member_id"`
	PaymentMethod sql.NullString  `db:"payment_method"`
	Location      sql.NullString  `db:"location"`
	Timestamps
}
