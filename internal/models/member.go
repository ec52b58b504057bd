package models

import (
	"database/sql"
	"time"
)

// Member is a row of the family_members table.
type Member struct {
	MemberID string `db:"id"`
	Name     string `db:"name"`
	PinHash  string `db:"pin_hash"`
	Timestamps
}

// MemberSession is a row of the member_sessions table.
type MemberSession struct {
	SessionID string       `db:"id"`
	MemberID  string       `db:"member_id"`
	ExpiresAt time.Time    `db:"expires_at"`
	RevokedAt sql.NullTime `db:"revoked_at"`
	CreatedAt time.Time    `db:"created_at"`
}
