package domain

import "time"

// Timestamps holds the creation and update times shared by persisted entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateLayout is the calendar date format used by transactions and goals.
const DateLayout = "2006-01-02"
