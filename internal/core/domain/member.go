package domain

import "time"

// Member is a person of the family sharing the finances.
type Member struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	Timestamps
}

// MemberSession is a server-side login session; the JWT credential references it by ID.
type MemberSession struct {
	SessionID string     `json:"sessionID"`
	MemberID  string     `json:"memberID"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsActive reports whether the session is usable at the given instant.
func (s *MemberSession) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// AuthGrant is the outcome of a successful register or login.
type AuthGrant struct {
	Member    Member    `json:"member"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
