package postgres

import (
	"context"
	"testing"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() *domain.Transaction {
	sender := uuid.New()
	recipient := uuid.New()
	return &domain.Transaction{
		ID:                uuid.New(),
		ReferenceNumber:   domain.NewReferenceNumber(domain.TransactionTypeTransfer, time.Now()),
		ClientReference:   "client-ref-001",
		Type:              domain.TransactionTypeTransfer,
		Amount:            decimal.RequireFromString("50.00"),
		PlatformFee:       decimal.RequireFromString("0.50"),
		AgentFee:          decimal.Zero,
		NetAmount:         decimal.RequireFromString("49.50"),
		Currency:          domain.CurrencyUSD,
		Status:            domain.TransactionStatusCompleted,
		SenderWalletID:    &sender,
		RecipientWalletID: &recipient,
		InitiatorID:       uuid.New(),
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionTestColumns() []string {
	return []string{"id", "reference_number", "client_reference", "type", "amount", "platform_fee",
		"agent_fee", "net_amount", "currency", "status", "sender_wallet_id", "recipient_wallet_id",
		"initiator_id", "counterparty_id", "note", "created_at", "completed_at"}
}

func transactionRow(txn *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionTestColumns()).AddRow(
		txn.ID, txn.ReferenceNumber, txn.ClientReference, txn.Type,
		txn.Amount, txn.PlatformFee, txn.AgentFee, txn.NetAmount,
		txn.Currency, txn.Status, txn.SenderWalletID, txn.RecipientWalletID,
		txn.InitiatorID, txn.CounterpartyID, txn.Note, txn.CreatedAt, txn.CompletedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.ReferenceNumber, txn.ClientReference, txn.Type,
			txn.Amount, txn.PlatformFee, txn.AgentFee, txn.NetAmount,
			txn.Currency, txn.Status, txn.SenderWalletID, txn.RecipientWalletID,
			txn.InitiatorID, txn.CounterpartyID, txn.Note, txn.CreatedAt, txn.CompletedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, txn.ReferenceNumber, result.ReferenceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByClientReference_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	initiatorID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(initiatorID, "missing-ref").
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.GetByClientReference(context.Background(), initiatorID, "missing-ref")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()
	completedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(domain.TransactionStatusCompleted, &completedAt, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.TransactionStatusCompleted, &completedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(domain.TransactionStatusCancelled, (*time.Time)(nil), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.TransactionStatusCancelled, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_CountSince(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	initiatorID := uuid.New()
	since := time.Now().Add(-10 * time.Minute)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(initiatorID, since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountSince(context.Background(), initiatorID, since)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	status := domain.TransactionStatusCompleted

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(status, 20, 0).
		WillReturnRows(transactionRow(txn))

	result, total, err := repo.List(context.Background(), ports.TransactionListParams{
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.Equal(t, txn.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	initiatorID := uuid.New()

	rows := pgxmock.NewRows([]string{"total", "completed", "cancelled", "held", "volume", "fees"}).
		AddRow(int64(10), int64(8), int64(1), int64(1),
			decimal.RequireFromString("500.00"), decimal.RequireFromString("5.00"))

	mock.ExpectQuery("SELECT").
		WithArgs(initiatorID, domain.CurrencyUSD).
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background(), initiatorID, domain.CurrencyUSD, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalCount)
	assert.Equal(t, int64(8), stats.CompletedCount)
	assert.True(t, stats.TotalVolume.Equal(decimal.RequireFromString("500.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
