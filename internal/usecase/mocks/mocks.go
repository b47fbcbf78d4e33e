package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions. When Lock is set, Begin
// acquires it and Commit/Rollback release it, which serializes units of work
// the way per-row locks do in the real store.
type MockTransactionManager struct {
	Lock      *sync.Mutex
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu           sync.Mutex
	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	tx := &MockTransaction{}

	m.mu.Lock()
	m.Transactions = append(m.Transactions, tx)
	m.mu.Unlock()

	if m.Lock != nil {
		m.Lock.Lock()
		return &lockedTransaction{MockTransaction: tx, lock: m.Lock}, nil
	}

	return tx, nil
}

type lockedTransaction struct {
	*MockTransaction
	lock *sync.Mutex
	done bool
}

func (t *lockedTransaction) Commit(ctx context.Context) error {
	err := t.MockTransaction.Commit(ctx)
	t.release()
	return err
}

func (t *lockedTransaction) Rollback(ctx context.Context) error {
	err := t.MockTransaction.Rollback(ctx)
	t.release()
	return err
}

func (t *lockedTransaction) release() {
	if !t.done {
		t.done = true
		t.lock.Unlock()
	}
}

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User

	CreateFunc    func(ctx context.Context, user *domain.User) error
	GetByIDFunc   func(ctx context.Context, id int64) (*domain.User, error)
	LockByIDsFunc func(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}

	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user

	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, ok := m.users[id]; ok {
		return u, nil
	}

	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) LockByIDs(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.User, error) {
	if m.LockByIDsFunc != nil {
		return m.LockByIDsFunc(ctx, tx, ids)
	}

	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	m.mu.RLock()
	defer m.mu.RUnlock()

	var users []*domain.User
	for _, id := range sorted {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}

	return users, nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var users []*domain.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(users) >= limit {
			break
		}
		users = append(users, m.users[id])
	}

	return users, nil
}

// Seed inserts a user directly, bypassing uniqueness checks.
func (m *MockUserRepository) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}

	m.users[user.ID] = user
}

// MockEntryRepository is an in-memory append-only ledger.
type MockEntryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*domain.Entry

	CreateFunc    func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	SetStatusFunc func(ctx context.Context, tx usecase.Transaction, id int64, status domain.EntryStatus) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	entry.ID = m.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stored := *entry
	m.entries = append(m.entries, &stored)

	return nil
}

func (m *MockEntryRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id int64, status domain.EntryStatus) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, tx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id && e.Status == domain.StatusPending {
			e.Status = status
			return nil
		}
	}

	return domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}

	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*domain.Entry
	for _, e := range m.entries {
		if e.UserID == userID {
			copied := *e
			all = append(all, &copied)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}

	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (m *MockEntryRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, e := range m.entries {
		if e.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (m *MockEntryRepository) SumCompletedByUser(ctx context.Context, userID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sumLocked(userID), nil
}

func (m *MockEntryRepository) SumCompletedByUserTx(ctx context.Context, tx usecase.Transaction, userID int64) (int64, error) {
	return m.SumCompletedByUser(ctx, userID)
}

func (m *MockEntryRepository) SumCompletedAtEntry(ctx context.Context, userID, entryID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var target *domain.Entry
	for _, e := range m.entries {
		if e.ID == entryID {
			target = e
			break
		}
	}
	if target == nil {
		return 0, domain.ErrEntryNotFound
	}

	var sum int64
	for _, e := range m.entries {
		if e.UserID != userID || e.Status != domain.StatusCompleted {
			continue
		}
		if e.CreatedAt.Before(target.CreatedAt) ||
			(e.CreatedAt.Equal(target.CreatedAt) && e.ID <= target.ID) {
			sum += e.SignedAmount()
		}
	}

	return sum, nil
}

func (m *MockEntryRepository) sumLocked(userID int64) int64 {
	var sum int64
	for _, e := range m.entries {
		if e.UserID == userID && e.Status == domain.StatusCompleted {
			sum += e.SignedAmount()
		}
	}
	return sum
}

// Entries returns a snapshot of every stored entry, oldest first.
func (m *MockEntryRepository) Entries() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		copied := *e
		out = append(out, &copied)
	}

	return out
}

// MockOutboxRepository stores outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}

	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept

	return nil
}

// MockAuditRepository stores audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.AuditLog
	for _, l := range m.Logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}

	return out, nil
}

// MockIDGenerator returns sequential ids.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++

	return "mock-id-" + itoa(m.counter)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.items[key]; ok {
		return v, nil
	}

	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// PassthroughRetrier runs the operation exactly once.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	return string(digits)
}
