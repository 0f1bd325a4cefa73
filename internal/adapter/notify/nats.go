// Package notify publishes post-commit events over NATS. Publishing is
// best-effort: a failed publish is logged and never fails the
// operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	// SubjectWallet carries user-facing transaction and OTP events.
	SubjectWallet = "notifications.wallet"
	// SubjectSnapshots carries exported balance snapshots.
	SubjectSnapshots = "snapshots.exported"
)

// Connect opens a NATS connection. An empty URL disables publishing;
// the notifier then drops every event.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// Notifier implements ports.Notifier and ports.Archiver over a NATS
// connection. A nil connection turns every publish into a no-op.
type Notifier struct {
	nc  *nats.Conn
	log zerolog.Logger
}

// NewNotifier creates a Notifier. nc may be nil.
func NewNotifier(nc *nats.Conn, log zerolog.Logger) *Notifier {
	return &Notifier{nc: nc, log: log}
}

type transactionEvent struct {
	Event           string          `json:"event"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	Type            string          `json:"type"`
	Amount          string          `json:"amount"`
	Currency        domain.Currency `json:"currency"`
	Status          string          `json:"status"`
	InitiatorID     uuid.UUID       `json:"initiator_id"`
	CounterpartyID  *uuid.UUID      `json:"counterparty_id,omitempty"`
	HoldID          *uuid.UUID      `json:"hold_id,omitempty"`
	HoldReason      string          `json:"hold_reason,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

func newTransactionEvent(event string, txn *domain.Transaction) transactionEvent {
	return transactionEvent{
		Event:           event,
		TransactionID:   txn.ID,
		ReferenceNumber: txn.ReferenceNumber,
		Type:            string(txn.Type),
		Amount:          txn.Amount.StringFixed(2),
		Currency:        txn.Currency,
		Status:          string(txn.Status),
		InitiatorID:     txn.InitiatorID,
		CounterpartyID:  txn.CounterpartyID,
		OccurredAt:      time.Now().UTC(),
	}
}

// TransactionCompleted publishes a completion event.
func (n *Notifier) TransactionCompleted(_ context.Context, txn *domain.Transaction) error {
	return n.publish(SubjectWallet, newTransactionEvent("transaction.completed", txn))
}

// TransactionHeld publishes a hold event with the hold's reason.
func (n *Notifier) TransactionHeld(_ context.Context, txn *domain.Transaction, hold *domain.HeldTransaction) error {
	evt := newTransactionEvent("transaction.held", txn)
	evt.HoldID = &hold.ID
	evt.HoldReason = hold.Reason
	return n.publish(SubjectWallet, evt)
}

// TransactionCancelled publishes a cancellation event.
func (n *Notifier) TransactionCancelled(_ context.Context, txn *domain.Transaction) error {
	return n.publish(SubjectWallet, newTransactionEvent("transaction.cancelled", txn))
}

type otpEvent struct {
	Event     string    `json:"event"`
	UserID    uuid.UUID `json:"user_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPIssued hands a transfer confirmation code to the out-of-band
// delivery channel (SMS/push workers subscribe to the wallet subject).
func (n *Notifier) OTPIssued(_ context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	return n.publish(SubjectWallet, otpEvent{
		Event:     "otp.issued",
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
	})
}

// SnapshotExported publishes a committed snapshot for downstream
// archival.
func (n *Notifier) SnapshotExported(_ context.Context, snapshot *domain.Snapshot) error {
	return n.publish(SubjectSnapshots, snapshot)
}

func (n *Notifier) publish(subject string, payload any) error {
	if n.nc == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.nc.Publish(subject, data); err != nil {
		n.log.Warn().Err(err).Str("subject", subject).Msg("Event publish failed")
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
