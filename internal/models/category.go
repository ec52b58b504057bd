package models

import (
	"database/sql"
	"time"
)

// Category is a row of the categories table.
type Category struct {
	CategoryID string         `db:"id"`
	Name       string         `db:"name"`
	Icon       sql.NullString `db:"icon"`
	IsDefault  sql.NullBool   `db:"is_default"`
	CreatedAt  time.Time      `db:"created_at"`
}
