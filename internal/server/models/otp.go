package models

import "time"

// OneTimeCode is a password reset code. It is valid while Used is false and
// the current time is before ExpiresAt.
type OneTimeCode struct {
	ID        int64
	UserID    int64
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// Expired reports whether the code is past its expiry at now.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
