package models

import "time"

// Session is one authenticated device/browser presence. Device, IP and
// UserAgent are best-effort metadata, never authoritative.
type Session struct {
	ID        string
	UserID    string
	Device    string
	IP        string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Active reports whether the session is still usable at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
