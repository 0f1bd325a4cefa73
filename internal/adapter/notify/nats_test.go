package notify

import (
	"context"
	"testing"
	"time"

	"fincore/internal/core/domain"
	"fincore/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyURLDisables(t *testing.T) {
	nc, err := Connect("")
	require.NoError(t, err)
	assert.Nil(t, nc)
}

func TestNotifier_NilConnIsNoop(t *testing.T) {
	n := NewNotifier(nil, logger.New("disabled", false))
	ctx := context.Background()

	txn := &domain.Transaction{
		ID:              uuid.New(),
		ReferenceNumber: "TRF-20250812-ABCD1234",
		Type:            domain.TransactionTypeTransfer,
		Amount:          decimal.RequireFromString("25.00"),
		Currency:        domain.CurrencyUSD,
		Status:          domain.TransactionStatusCompleted,
		InitiatorID:     uuid.New(),
	}
	hold := &domain.HeldTransaction{
		ID:     uuid.New(),
		Reason: "risk score 80: HIGH_AMOUNT, NEW_DEVICE",
	}

	assert.NoError(t, n.TransactionCompleted(ctx, txn))
	assert.NoError(t, n.TransactionHeld(ctx, txn, hold))
	assert.NoError(t, n.TransactionCancelled(ctx, txn))
	assert.NoError(t, n.OTPIssued(ctx, uuid.New(), "482913", time.Now().Add(5*time.Minute)))
	assert.NoError(t, n.SnapshotExported(ctx, &domain.Snapshot{ID: uuid.New()}))
}
