package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AgentCreditRepo implements ports.AgentCreditRepository.
type AgentCreditRepo struct {
	pool Pool
}

// NewAgentCreditRepo creates a new AgentCreditRepo.
func NewAgentCreditRepo(pool Pool) *AgentCreditRepo {
	return &AgentCreditRepo{pool: pool}
}

const agentCreditColumns = `agent_id, currency, balance, created_at, updated_at`

// Create inserts a zero-balance credit line for an agent.
func (r *AgentCreditRepo) Create(ctx context.Context, c *domain.AgentCredit) error {
	query := `INSERT INTO agent_credits (agent_id, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		c.AgentID, c.Currency, c.Balance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert agent credit: %w", err)
	}
	return nil
}

// Get fetches an agent's credit line for one currency.
func (r *AgentCreditRepo) Get(ctx context.Context, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	query := `SELECT ` + agentCreditColumns + ` FROM agent_credits
		WHERE agent_id = $1 AND currency = $2`

	return r.scanAgentCredit(r.pool.QueryRow(ctx, query, agentID, currency))
}

// GetForUpdate fetches an agent's credit line with a row lock, within
// a database transaction.
func (r *AgentCreditRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	query := `SELECT ` + agentCreditColumns + ` FROM agent_credits
		WHERE agent_id = $1 AND currency = $2 FOR UPDATE`

	return r.scanAgentCredit(tx.QueryRow(ctx, query, agentID, currency))
}

// UpdateBalance sets an agent's credit balance within a database transaction.
func (r *AgentCreditRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency, balance decimal.Decimal) error {
	query := `UPDATE agent_credits SET balance = $1, updated_at = NOW()
		WHERE agent_id = $2 AND currency = $3`

	tag, err := tx.Exec(ctx, query, balance, agentID, currency)
	if err != nil {
		return fmt.Errorf("update agent credit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent credit not found: %s %s", agentID, currency)
	}
	return nil
}

// SumCredits totals all agent credit balances in one currency, for
// reconciliation against the AGT-LEDGER account.
func (r *AgentCreditRepo) SumCredits(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM agent_credits WHERE currency = $1`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, currency).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum agent credits: %w", err)
	}
	return sum, nil
}

// scanAgentCredit is a helper to scan a single row into an AgentCredit.
func (r *AgentCreditRepo) scanAgentCredit(row pgx.Row) (*domain.AgentCredit, error) {
	c := &domain.AgentCredit{}
	err := row.Scan(&c.AgentID, &c.Currency, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan agent credit: %w", err)
	}
	return c, nil
}
