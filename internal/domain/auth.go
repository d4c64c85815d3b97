package domain

import "time"

// TokenPair couples the short-lived access token with its long-lived
// refresh counterpart.
type TokenPair struct {
	Access          string
	Refresh         string
	AccessExpiresAt time.Time
}
