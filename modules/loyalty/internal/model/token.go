package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Token is a short-lived single-use redemption pass.
type Token struct {
	ID         int64     `db:"id"`
	CustomerID int64     `db:"customer_id"`
	Code       string    `db:"code"`
	MessageID  *int64    `db:"message_id"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// ExpiredToken is the remnant the sweeper needs to clean up the ephemeral
// message that carried the code.
type ExpiredToken struct {
	CustomerID int64  `db:"customer_id"`
	MessageID  *int64 `db:"message_id"`
}

// NewCode returns a 6-character uppercase hex code from a CSPRNG.
func NewCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
