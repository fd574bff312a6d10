package model

import "time"

// Session is a server-side login session referenced by an opaque token
// held in the client's cookie. Name and Email are snapshots of the user
// taken at login so request handling does not need a user lookup.
type Session struct {
	Token     string
	UserID    int64
	UserName  string
	UserEmail string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session's absolute lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
