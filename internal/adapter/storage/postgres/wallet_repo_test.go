package postgres

import (
	"context"
	"testing"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(ownerID uuid.UUID) *domain.Wallet {
	return &domain.Wallet{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Currency:      domain.CurrencyUSD,
		Purpose:       domain.PurposePersonal,
		Balance:       decimal.RequireFromString("100.00"),
		FrozenBalance: decimal.Zero,
		Active:        true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletTestColumns() []string {
	return []string{"id", "owner_id", "currency", "purpose", "balance", "frozen_balance", "active", "created_at", "updated_at"}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	return pgxmock.NewRows(walletTestColumns()).AddRow(
		w.ID, w.OwnerID, w.Currency, w.Purpose, w.Balance,
		w.FrozenBalance, w.Active, w.CreatedAt, w.UpdatedAt,
	)
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.OwnerID, w.Currency, w.Purpose, w.Balance,
			w.FrozenBalance, w.Active, w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.True(t, w.Balance.Equal(result.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(walletTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallets").
		WithArgs(w.OwnerID, w.Currency, w.Purpose).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByOwner(context.Background(), w.OwnerID, w.Currency, w.Purpose)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	ownerID := uuid.New()
	w1 := newTestWallet(ownerID)
	w2 := newTestWallet(ownerID)
	w2.Currency = domain.CurrencySYP

	rows := pgxmock.NewRows(walletTestColumns()).
		AddRow(w1.ID, w1.OwnerID, w1.Currency, w1.Purpose, w1.Balance,
			w1.FrozenBalance, w1.Active, w1.CreatedAt, w1.UpdatedAt).
		AddRow(w2.ID, w2.OwnerID, w2.Currency, w2.Purpose, w2.Balance,
			w2.FrozenBalance, w2.Active, w2.CreatedAt, w2.UpdatedAt)

	mock.ExpectQuery("SELECT .+ FROM wallets").
		WithArgs(ownerID).
		WillReturnRows(rows)

	result, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, w1.ID, result[0].ID)
	assert.Equal(t, w2.ID, result[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	w := newTestWallet(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id .+ FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()
	balance := decimal.RequireFromString("75.50")
	frozen := decimal.Zero

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(balance, frozen, walletID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalances(context.Background(), tx, walletID, balance, frozen)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_UpdateBalances_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(decimal.Zero, decimal.Zero, walletID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalances(context.Background(), tx, walletID, decimal.Zero, decimal.Zero)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wallet not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_SumBalances(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(domain.CurrencyUSD, domain.PurposePersonal).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.RequireFromString("1234.56")))

	sum, err := repo.SumBalances(context.Background(), domain.CurrencyUSD, domain.PurposePersonal)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("1234.56")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
