package models

import "time"

// Identity is the authenticated caller derived from a verified access token.
type Identity struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}
