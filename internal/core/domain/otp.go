package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferOTP parks an initiated transfer until the caller confirms it
// with the one-time code. Only the bcrypt hash of the code is stored;
// Payload is the serialized pending transfer executed on confirm. A
// user has at most one pending transfer: initiating again replaces it.
type TransferOTP struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CodeHash  string    `json:"-"`
	Payload   []byte    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the code can no longer be redeemed.
func (o *TransferOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
