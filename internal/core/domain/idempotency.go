package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog represents a cached transaction result to prevent double-processing.
type IdempotencyLog struct {
	Key           string    `json:"key"` // Format: "initiator_id:client_reference"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"` // Cached response to return
	CreatedAt     time.Time `json:"created_at"`
}

// BuildIdempotencyKey constructs the standard key format.
func BuildIdempotencyKey(initiatorID uuid.UUID, clientReference string) string {
	return initiatorID.String() + ":" + clientReference
}
