package models

import "time"

// Session represents an authenticated user session. Identity fields are
// cached copies of the user row taken at login time; they are not refreshed
// if the user record changes mid-session.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"` // Never expose in JSON
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its fixed deadline. The
// deadline is anchored at login time and is never extended by activity.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
