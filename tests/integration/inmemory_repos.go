package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// uniqueViolation mimics the postgres duplicate-key error the services
// match on for their race-recovery paths.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// --- Transactor ---

// memState is implemented by fakes whose writes happen inside a
// database transaction. The transactor snapshots them at Begin and
// restores them on Rollback, so a posting that fails midway leaves no
// partial writes behind, same as postgres.
type memState interface {
	snapshot() any
	restore(any)
}

// inMemoryTransactor serializes postings behind one mutex, standing in
// for the row locks the postgres repos take with SELECT FOR UPDATE.
// Sequences that would contend on rows in production contend on the
// mutex here, so the concurrency tests observe the same isolation.
// Because at most one transaction is ever open, a full snapshot of the
// registered stores at Begin is enough to roll back. Non-transactional
// writes to a registered store are only safe outside an open
// transaction; the flows under test create their rows before posting.
type inMemoryTransactor struct {
	mu     sync.Mutex
	stores []memState
}

func newInMemoryTransactor(stores ...memState) *inMemoryTransactor {
	return &inMemoryTransactor{stores: stores}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	snaps := make([]any, len(t.stores))
	for i, s := range t.stores {
		snaps[i] = s.snapshot()
	}
	return &lockTx{
		commit: t.mu.Unlock,
		rollback: func() {
			for i, s := range t.stores {
				s.restore(snaps[i])
			}
			t.mu.Unlock()
		},
	}, nil
}

// lockTx is a pgx.Tx that holds the transactor's lock until Commit or
// Rollback. Whichever of the two runs first wins; the deferred
// Rollback after a successful Commit is a no-op.
type lockTx struct {
	once     sync.Once
	commit   func()
	rollback func()
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.once.Do(t.commit); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.once.Do(t.rollback); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *lockTx) Conn() *pgx.Conn                                               { return nil }

// --- Rollback snapshots ---

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func (r *inMemoryWalletRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.wallets)
}

func (r *inMemoryWalletRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets = s.(map[uuid.UUID]domain.Wallet)
}

func (r *inMemoryCreditRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.credits)
}

func (r *inMemoryCreditRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credits = s.(map[string]domain.AgentCredit)
}

type accountState struct {
	internal map[string]domain.InternalAccount
	ledger   map[string]domain.LedgerAccount
}

func (r *inMemoryAccountRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return accountState{internal: cloneMap(r.internal), ledger: cloneMap(r.ledger)}
}

func (r *inMemoryAccountRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := s.(accountState)
	r.internal = st.internal
	r.ledger = st.ledger
}

func (r *inMemoryLedgerRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.LedgerEntry(nil), r.entries...)
}

func (r *inMemoryLedgerRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = s.([]domain.LedgerEntry)
}

func (r *inMemoryTransactionRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.txns)
}

func (r *inMemoryTransactionRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = s.(map[uuid.UUID]domain.Transaction)
}

func (r *inMemoryHoldRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.holds)
}

func (r *inMemoryHoldRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holds = s.(map[uuid.UUID]domain.HeldTransaction)
}

func (r *inMemoryAlertRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.alerts)
}

func (r *inMemoryAlertRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = s.(map[uuid.UUID]domain.RiskAlert)
}

func (r *inMemoryLimitsRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.limits)
}

func (r *inMemoryLimitsRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = s.(map[string]domain.UserTransactionLimits)
}

func (r *inMemoryIdempotencyRepo) snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMap(r.logs)
}

func (r *inMemoryIdempotencyRepo) restore(s any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = s.(map[string]domain.IdempotencyLog)
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// --- In-Memory Profile Repo ---

type inMemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.Profile
}

func newInMemoryProfileRepo() *inMemoryProfileRepo {
	return &inMemoryProfileRepo{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *inMemoryProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; ok {
		return uniqueViolation()
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *inMemoryProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *inMemoryProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProfileStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	r.profiles[id] = p
	return nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.OwnerID == w.OwnerID && existing.Currency == w.Currency && existing.Purpose == w.Purpose {
			return uniqueViolation()
		}
	}
	r.wallets[w.ID] = *w
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *inMemoryWalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.OwnerID == ownerID && w.Currency == currency && w.Purpose == purpose {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Wallet
	for _, w := range r.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance, frozen decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return pgx.ErrNoRows
	}
	w.Balance = balance
	w.FrozenBalance = frozen
	w.UpdatedAt = time.Now().UTC()
	r.wallets[walletID] = w
	return nil
}

func (r *inMemoryWalletRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	w.Active = active
	r.wallets[id] = w
	return nil
}

func (r *inMemoryWalletRepo) SumBalances(ctx context.Context, currency domain.Currency, purpose domain.WalletPurpose) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, w := range r.wallets {
		if w.Currency == currency && w.Purpose == purpose {
			sum = sum.Add(w.Balance)
		}
	}
	return sum, nil
}

// --- In-Memory Agent Credit Repo ---

type inMemoryCreditRepo struct {
	mu      sync.RWMutex
	credits map[string]domain.AgentCredit
}

func newInMemoryCreditRepo() *inMemoryCreditRepo {
	return &inMemoryCreditRepo{credits: make(map[string]domain.AgentCredit)}
}

func creditKey(agentID uuid.UUID, currency domain.Currency) string {
	return agentID.String() + "|" + string(currency)
}

func (r *inMemoryCreditRepo) Create(ctx context.Context, c *domain.AgentCredit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := creditKey(c.AgentID, c.Currency)
	if _, ok := r.credits[key]; ok {
		return uniqueViolation()
	}
	r.credits[key] = *c
	return nil
}

func (r *inMemoryCreditRepo) Get(ctx context.Context, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.credits[creditKey(agentID, currency)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *inMemoryCreditRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	return r.Get(ctx, agentID, currency)
}

func (r *inMemoryCreditRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency, current decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := creditKey(agentID, currency)
	c, ok := r.credits[key]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Balance = current
	c.UpdatedAt = time.Now().UTC()
	r.credits[key] = c
	return nil
}

func (r *inMemoryCreditRepo) SumCredits(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, c := range r.credits {
		if c.Currency == currency {
			sum = sum.Add(c.Balance)
		}
	}
	return sum, nil
}

// --- In-Memory Account Repo ---

// inMemoryAccountRepo is seeded with the full chart in every currency;
// the posting path treats a missing account row as an integrity fault.
type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	internal map[string]domain.InternalAccount
	ledger   map[string]domain.LedgerAccount
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	r := &inMemoryAccountRepo{
		internal: make(map[string]domain.InternalAccount),
		ledger:   make(map[string]domain.LedgerAccount),
	}
	now := time.Now().UTC()
	for _, cur := range domain.Currencies() {
		for _, code := range domain.InternalAccountCodes() {
			r.internal[string(code)+"|"+string(cur)] = domain.InternalAccount{
				Code: code, Currency: cur, Balance: decimal.Zero, UpdatedAt: now,
			}
		}
		for _, code := range domain.LedgerAccountCodes() {
			r.ledger[string(code)+"|"+string(cur)] = domain.LedgerAccount{
				Code: code, Currency: cur, Balance: decimal.Zero, UpdatedAt: now,
			}
		}
	}
	return r
}

func (r *inMemoryAccountRepo) GetInternalForUpdate(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency) (*domain.InternalAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.internal[string(code)+"|"+string(currency)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *inMemoryAccountRepo) UpdateInternalBalance(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(code) + "|" + string(currency)
	a, ok := r.internal[key]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Balance = balance
	a.UpdatedAt = time.Now().UTC()
	r.internal[key] = a
	return nil
}

func (r *inMemoryAccountRepo) ListInternal(ctx context.Context, currency domain.Currency) ([]domain.InternalAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.InternalAccount, 0, len(domain.InternalAccountCodes()))
	for _, code := range domain.InternalAccountCodes() {
		if a, ok := r.internal[string(code)+"|"+string(currency)]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *inMemoryAccountRepo) GetLedgerForUpdate(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency) (*domain.LedgerAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.ledger[string(code)+"|"+string(currency)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *inMemoryAccountRepo) UpdateLedgerBalance(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(code) + "|" + string(currency)
	a, ok := r.ledger[key]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Balance = balance
	a.UpdatedAt = time.Now().UTC()
	r.ledger[key] = a
	return nil
}

func (r *inMemoryAccountRepo) ListLedger(ctx context.Context, currency domain.Currency) ([]domain.LedgerAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LedgerAccount, 0, len(domain.LedgerAccountCodes()))
	for _, code := range domain.LedgerAccountCodes() {
		if a, ok := r.ledger[string(code)+"|"+string(currency)]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) CreateEntry(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	cp.Lines = append([]domain.LedgerLine(nil), entry.Lines...)
	r.entries = append(r.entries, cp)
	return nil
}

func (r *inMemoryLedgerRepo) GetEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			cp := e
			cp.Lines = append([]domain.LedgerLine(nil), e.Lines...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryLedgerRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.TransactionID != nil && *e.TransactionID == transactionID {
			cp := e
			cp.Lines = append([]domain.LedgerLine(nil), e.Lines...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *inMemoryLedgerRepo) SumLineDeltas(ctx context.Context, account domain.LedgerAccountCode, currency domain.Currency) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.Currency != currency {
			continue
		}
		for _, l := range e.Lines {
			if l.Account == account {
				sum = sum.Add(l.Delta())
			}
		}
	}
	return sum, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns map[uuid.UUID]domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{txns: make(map[uuid.UUID]domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txns {
		if existing.ReferenceNumber == t.ReferenceNumber {
			return uniqueViolation()
		}
		if t.ClientReference != "" && existing.InitiatorID == t.InitiatorID && existing.ClientReference == t.ClientReference {
			return uniqueViolation()
		}
	}
	r.txns[t.ID] = *t
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.txns {
		if t.ReferenceNumber == referenceNumber {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) GetByClientReference(ctx context.Context, initiatorID uuid.UUID, clientReference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.txns {
		if t.InitiatorID == initiatorID && t.ClientReference == clientReference {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, completedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Status = status
	t.CompletedAt = completedAt
	r.txns[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) CountSince(ctx context.Context, initiatorID uuid.UUID, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, t := range r.txns {
		if t.InitiatorID == initiatorID && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.Transaction
	for _, t := range r.txns {
		if params.InitiatorID != nil && t.InitiatorID != *params.InitiatorID &&
			(t.CounterpartyID == nil || *t.CounterpartyID != *params.InitiatorID) {
			continue
		}
		if params.WalletID != nil &&
			(t.SenderWalletID == nil || *t.SenderWalletID != *params.WalletID) &&
			(t.RecipientWalletID == nil || *t.RecipientWalletID != *params.WalletID) {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.Currency != nil && t.Currency != *params.Currency {
			continue
		}
		if params.From != nil && t.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && t.CreatedAt.After(*params.To) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := int64(len(matched))
	return paginate(matched, params.Page, params.PageSize), total, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context, initiatorID uuid.UUID, currency domain.Currency, from *time.Time) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{TotalVolume: decimal.Zero, TotalFees: decimal.Zero}
	for _, t := range r.txns {
		if t.InitiatorID != initiatorID && (t.CounterpartyID == nil || *t.CounterpartyID != initiatorID) {
			continue
		}
		if t.Currency != currency {
			continue
		}
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		stats.TotalCount++
		switch t.Status {
		case domain.TransactionStatusCompleted:
			stats.CompletedCount++
			stats.TotalVolume = stats.TotalVolume.Add(t.Amount)
			stats.TotalFees = stats.TotalFees.Add(t.PlatformFee)
		case domain.TransactionStatusCancelled:
			stats.CancelledCount++
		case domain.TransactionStatusProcessing:
			stats.HeldCount++
		}
	}
	return stats, nil
}

// --- In-Memory Hold Repo ---

type inMemoryHoldRepo struct {
	mu    sync.RWMutex
	holds map[uuid.UUID]domain.HeldTransaction
}

func newInMemoryHoldRepo() *inMemoryHoldRepo {
	return &inMemoryHoldRepo{holds: make(map[uuid.UUID]domain.HeldTransaction)}
}

func (r *inMemoryHoldRepo) Create(ctx context.Context, tx pgx.Tx, h *domain.HeldTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holds[h.ID] = *h
	return nil
}

func (r *inMemoryHoldRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HeldTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.holds[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *inMemoryHoldRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.HeldTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryHoldRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.HeldTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.holds {
		if h.TransactionID == transactionID {
			cp := h
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryHoldRepo) List(ctx context.Context, status *domain.HoldStatus, page, pageSize int) ([]domain.HeldTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.HeldTransaction
	for _, h := range r.holds {
		if status != nil && h.Status != *status {
			continue
		}
		matched = append(matched, h)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := int64(len(matched))
	return paginate(matched, page, pageSize), total, nil
}

func (r *inMemoryHoldRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.HoldStatus, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[id]
	if !ok {
		return pgx.ErrNoRows
	}
	h.Status = status
	h.ResolvedBy = &resolvedBy
	h.ResolvedAt = &resolvedAt
	r.holds[id] = h
	return nil
}

func (r *inMemoryHoldRepo) SumHeld(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, h := range r.holds {
		if h.Currency == currency && h.Status == domain.HoldStatusHeld {
			sum = sum.Add(h.Amount)
		}
	}
	return sum, nil
}

// --- In-Memory Risk Alert Repo ---

type inMemoryAlertRepo struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]domain.RiskAlert
}

func newInMemoryAlertRepo() *inMemoryAlertRepo {
	return &inMemoryAlertRepo{alerts: make(map[uuid.UUID]domain.RiskAlert)}
}

func (r *inMemoryAlertRepo) Create(ctx context.Context, a *domain.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[a.ID] = *a
	return nil
}

func (r *inMemoryAlertRepo) CreateInTx(ctx context.Context, tx pgx.Tx, a *domain.RiskAlert) error {
	return r.Create(ctx, a)
}

func (r *inMemoryAlertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RiskAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *inMemoryAlertRepo) List(ctx context.Context, status *domain.AlertStatus, page, pageSize int) ([]domain.RiskAlert, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.RiskAlert
	for _, a := range r.alerts {
		if status != nil && a.Status != *status {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := int64(len(matched))
	return paginate(matched, page, pageSize), total, nil
}

func (r *inMemoryAlertRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AlertStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	a.ReviewedBy = &reviewedBy
	a.ReviewedAt = &reviewedAt
	r.alerts[id] = a
	return nil
}

// --- In-Memory Device Repo ---

type inMemoryDeviceRepo struct {
	mu      sync.RWMutex
	devices map[string]domain.TrustedDevice
}

func newInMemoryDeviceRepo() *inMemoryDeviceRepo {
	return &inMemoryDeviceRepo{devices: make(map[string]domain.TrustedDevice)}
}

func deviceKey(userID uuid.UUID, deviceID string) string {
	return userID.String() + "|" + deviceID
}

func (r *inMemoryDeviceRepo) Get(ctx context.Context, userID uuid.UUID, deviceID string) (*domain.TrustedDevice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[deviceKey(userID, deviceID)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *inMemoryDeviceRepo) Upsert(ctx context.Context, d *domain.TrustedDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[deviceKey(d.UserID, d.DeviceID)] = *d
	return nil
}

// --- In-Memory Limits Repo ---

type inMemoryLimitsRepo struct {
	mu     sync.RWMutex
	limits map[string]domain.UserTransactionLimits
}

func newInMemoryLimitsRepo() *inMemoryLimitsRepo {
	return &inMemoryLimitsRepo{limits: make(map[string]domain.UserTransactionLimits)}
}

func limitsKey(userID uuid.UUID, currency domain.Currency) string {
	return userID.String() + "|" + string(currency)
}

func (r *inMemoryLimitsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, currency domain.Currency) (*domain.UserTransactionLimits, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.limits[limitsKey(userID, currency)]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *inMemoryLimitsRepo) Upsert(ctx context.Context, tx pgx.Tx, l *domain.UserTransactionLimits) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits[limitsKey(l.UserID, l.Currency)] = *l
	return nil
}

// --- In-Memory OTP Repo ---

type inMemoryOTPRepo struct {
	mu   sync.RWMutex
	otps map[uuid.UUID]domain.TransferOTP
}

func newInMemoryOTPRepo() *inMemoryOTPRepo {
	return &inMemoryOTPRepo{otps: make(map[uuid.UUID]domain.TransferOTP)}
}

func (r *inMemoryOTPRepo) Replace(ctx context.Context, otp *domain.TransferOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.otps {
		if o.UserID == otp.UserID {
			delete(r.otps, id)
		}
	}
	cp := *otp
	cp.Payload = append([]byte(nil), otp.Payload...)
	r.otps[otp.ID] = cp
	return nil
}

func (r *inMemoryOTPRepo) GetActive(ctx context.Context, userID uuid.UUID) (*domain.TransferOTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.otps {
		if o.UserID == userID {
			cp := o
			cp.Payload = append([]byte(nil), o.Payload...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryOTPRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otps, id)
	return nil
}

func (r *inMemoryOTPRepo) PurgeExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.otps {
		if o.UserID == userID && o.Expired(now) {
			delete(r.otps, id)
		}
	}
	return nil
}

// --- In-Memory Snapshot Repo ---

type inMemorySnapshotRepo struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func newInMemorySnapshotRepo() *inMemorySnapshotRepo {
	return &inMemorySnapshotRepo{snapshots: make(map[string]domain.Snapshot)}
}

func snapshotKey(period domain.PeriodType, periodStart time.Time) string {
	return string(period) + "|" + periodStart.UTC().Format(time.RFC3339Nano)
}

func (r *inMemorySnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := snapshotKey(s.Period, s.PeriodStart)
	if _, ok := r.snapshots[key]; ok {
		return uniqueViolation()
	}
	cp := *s
	cp.Balances = append([]domain.AccountBalance(nil), s.Balances...)
	cp.Totals = append([]domain.CurrencyTotals(nil), s.Totals...)
	r.snapshots[key] = cp
	return nil
}

func (r *inMemorySnapshotRepo) GetByBucket(ctx context.Context, period domain.PeriodType, periodStart time.Time) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.snapshots[snapshotKey(period, periodStart)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *inMemorySnapshotRepo) GetLatest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.Snapshot
	for _, s := range r.snapshots {
		if s.Period != period {
			continue
		}
		if latest == nil || s.PeriodStart.After(latest.PeriodStart) {
			cp := s
			latest = &cp
		}
	}
	return latest, nil
}

func (r *inMemorySnapshotRepo) List(ctx context.Context, period domain.PeriodType, page, pageSize int) ([]domain.Snapshot, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.Snapshot
	for _, s := range r.snapshots {
		if s.Period == period {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PeriodStart.After(matched[j].PeriodStart) })
	total := int64(len(matched))
	return paginate(matched, page, pageSize), total, nil
}

// --- In-Memory Reconciliation Repo ---

type inMemoryReconciliationRepo struct {
	mu      sync.RWMutex
	reports []domain.ReconciliationReport
}

func newInMemoryReconciliationRepo() *inMemoryReconciliationRepo {
	return &inMemoryReconciliationRepo{}
}

func (r *inMemoryReconciliationRepo) Create(ctx context.Context, report *domain.ReconciliationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *report
	cp.Checks = append([]domain.ReconciliationCheck(nil), report.Checks...)
	r.reports = append(r.reports, cp)
	return nil
}

func (r *inMemoryReconciliationRepo) GetLatest(ctx context.Context) (*domain.ReconciliationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.reports) == 0 {
		return nil, nil
	}
	cp := r.reports[len(r.reports)-1]
	return &cp, nil
}

func (r *inMemoryReconciliationRepo) List(ctx context.Context, page, pageSize int) ([]domain.ReconciliationReport, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]domain.ReconciliationReport, len(r.reports))
	copy(matched, r.reports)
	sort.Slice(matched, func(i, j int) bool { return matched[i].RanAt.After(matched[j].RanAt) })
	total := int64(len(matched))
	return paginate(matched, page, pageSize), total, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu   sync.RWMutex
	logs []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *inMemoryAuditRepo) List(ctx context.Context, actorID *uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.AuditLog
	for _, l := range r.logs {
		if actorID != nil && l.ActorID != *actorID {
			continue
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	return paginate(matched, page, pageSize), total, nil
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[log.Key]; ok {
		return uniqueViolation()
	}
	cp := *log
	cp.ResponseJSON = append([]byte(nil), log.ResponseJSON...)
	r.logs[log.Key] = cp
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	cp := l
	cp.ResponseJSON = append([]byte(nil), l.ResponseJSON...)
	return &cp, nil
}

// --- Recording Notifier ---

type issuedOTP struct {
	userID    uuid.UUID
	code      string
	expiresAt time.Time
}

// recordingNotifier captures every published event so tests can drive
// the OTP confirmation flow and assert on delivery without a broker.
// It doubles as the snapshot archiver.
type recordingNotifier struct {
	mu        sync.Mutex
	completed []domain.Transaction
	held      []domain.Transaction
	cancelled []domain.Transaction
	otps      []issuedOTP
	exported  []domain.Snapshot
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{}
}

func (n *recordingNotifier) TransactionCompleted(ctx context.Context, txn *domain.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, *txn)
	return nil
}

func (n *recordingNotifier) TransactionHeld(ctx context.Context, txn *domain.Transaction, hold *domain.HeldTransaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.held = append(n.held, *txn)
	return nil
}

func (n *recordingNotifier) TransactionCancelled(ctx context.Context, txn *domain.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, *txn)
	return nil
}

func (n *recordingNotifier) OTPIssued(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.otps = append(n.otps, issuedOTP{userID: userID, code: code, expiresAt: expiresAt})
	return nil
}

func (n *recordingNotifier) SnapshotExported(ctx context.Context, snapshot *domain.Snapshot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exported = append(n.exported, *snapshot)
	return nil
}

// lastOTP returns the most recent code issued to the user.
func (n *recordingNotifier) lastOTP(userID uuid.UUID) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.otps) - 1; i >= 0; i-- {
		if n.otps[i].userID == userID {
			return n.otps[i].code, true
		}
	}
	return "", false
}

func (n *recordingNotifier) heldCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.held)
}

func (n *recordingNotifier) exportedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.exported)
}

// interface conformance
var (
	_ ports.ProfileRepository        = (*inMemoryProfileRepo)(nil)
	_ ports.WalletRepository         = (*inMemoryWalletRepo)(nil)
	_ ports.AgentCreditRepository    = (*inMemoryCreditRepo)(nil)
	_ ports.AccountRepository        = (*inMemoryAccountRepo)(nil)
	_ ports.LedgerRepository         = (*inMemoryLedgerRepo)(nil)
	_ ports.TransactionRepository    = (*inMemoryTransactionRepo)(nil)
	_ ports.HoldRepository           = (*inMemoryHoldRepo)(nil)
	_ ports.RiskAlertRepository      = (*inMemoryAlertRepo)(nil)
	_ ports.DeviceRepository         = (*inMemoryDeviceRepo)(nil)
	_ ports.LimitsRepository         = (*inMemoryLimitsRepo)(nil)
	_ ports.OTPRepository            = (*inMemoryOTPRepo)(nil)
	_ ports.SnapshotRepository       = (*inMemorySnapshotRepo)(nil)
	_ ports.ReconciliationRepository = (*inMemoryReconciliationRepo)(nil)
	_ ports.AuditRepository          = (*inMemoryAuditRepo)(nil)
	_ ports.IdempotencyRepository    = (*inMemoryIdempotencyRepo)(nil)
	_ ports.DBTransactor             = (*inMemoryTransactor)(nil)
	_ ports.Notifier                 = (*recordingNotifier)(nil)
	_ ports.Archiver                 = (*recordingNotifier)(nil)
)
