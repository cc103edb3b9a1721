package models

import "time"

// Session represents an authenticated user session.
// The full record is persisted as one JSON document; Token is the
// authoritative identity, the storage key only narrows lookup candidates.
type Session struct {
	UserID           int64        `json:"user_id" badgerhold:"index"`
	User             *UserProfile `json:"user"`
	Token            string       `json:"token" badgerhold:"key"`
	ExpiresAt        string       `json:"expires_at"`
	ExpiresTimestamp int64        `json:"expires_timestamp" badgerhold:"index"`
	IPAddress        string       `json:"ip_address"`
	UserAgent        string       `json:"user_agent"`
	CreatedAt        string       `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresTimestamp
}
