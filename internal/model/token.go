package model

import (
	"time"
)

// VerificationToken is a single-use credential proving control of an email
// address. It is keyed by the email it authorizes (identifier), not by user ID,
// and must be looked up independently of the user record.
type VerificationToken struct {
	Identifier string    `db:"identifier"`
	Token      string    `db:"token"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
