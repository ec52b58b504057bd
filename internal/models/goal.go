package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a row of the goals table.
type Goal struct {
	GoalID        string          `db:"id"`
	Title         string          `db:"title"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Type          string          `db:"type"`
	Category      sql.NullString  `db:"category"`
	Period        string          `db:"period"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       sql.NullTime    `db:"end_date"`
	MemberID      sql.NullString  `db:"member_id"`
	Timestamps
}
