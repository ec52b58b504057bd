// Package memory holds every repository in process memory. It backs tests and
// the STORAGE_DRIVER=memory mode; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
)

type memberRecord struct {
	member  domain.Member
	pinHash string
}

// Store is an in-memory implementation of all repository facades.
type Store struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	goals        []domain.Goal
	categories   []domain.Category
	members      []memberRecord
	sessions     map[string]domain.MemberSession

	subMu       sync.Mutex
	subscribers map[chan domain.ChangeEvent]struct{}
}

// NewStore returns a store seeded with the default categories.
func NewStore() *Store {
	s := &Store{
		sessions:    make(map[string]domain.MemberSession),
		subscribers: make(map[chan domain.ChangeEvent]struct{}),
	}
	now := time.Now()
	for _, c := range domain.DefaultCategories {
		c.CategoryID = uuid.NewString()
		c.CreatedAt = now
		s.categories = append(s.categories, c)
	}
	return s
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: s,
		GoalRepo:        s,
		CategoryRepo:    s,
		MemberRepo:      s,
		Changes:         s,
	}
}

var (
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.GoalRepositoryFacade        = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*Store)(nil)
	_ portsrepo.MemberRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ChangeFeed                  = (*Store)(nil)
)

// --- transactions ---

func txnBefore(a, b domain.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *Store) ListTransactions(_ context.Context, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cloned := append([]domain.Transaction(nil), s.transactions...)
	sort.SliceStable(cloned, func(i, j int) bool { return txnBefore(cloned[i], cloned[j]) })

	out := make([]domain.Transaction, 0, len(cloned))
	for _, t := range cloned {
		if after != nil && !txnBefore(domain.Transaction{Date: after.Date, Timestamps: domain.Timestamps{CreatedAt: after.CreatedAt}}, t) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) FindLatestTransactionByDescription(_ context.Context, fragment string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(fragment)
	var found *domain.Transaction
	for i := range s.transactions {
		t := s.transactions[i]
		if !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if found == nil || t.CreatedAt.After(found.CreatedAt) {
			found = &t
		}
	}
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (s *Store) SumByType(_ context.Context) (map[domain.TransactionType]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := map[domain.TransactionType]decimal.Decimal{
		domain.Expense: decimal.Zero,
		domain.Income:  decimal.Zero,
	}
	for _, t := range s.transactions {
		sums[t.Type] = sums[t.Type].Add(t.Amount)
	}
	return sums, nil
}

func (s *Store) SumExpensesByCategory(_ context.Context) ([]domain.CategoryAmount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]decimal.Decimal)
	for _, t := range s.transactions {
		if t.Type != domain.Expense {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	out := make([]domain.CategoryAmount, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, domain.CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	s.transactions = append(s.transactions, txn)
	s.mu.Unlock()

	s.publish("transactions", "INSERT", txn.TransactionID)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, transactionID string) error {
	s.mu.Lock()
	idx := -1
	for i, t := range s.transactions {
		if t.TransactionID == transactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	s.mu.Unlock()

	s.publish("transactions", "DELETE", transactionID)
	return nil
}

// --- goals ---

func (s *Store) sortedGoals(match func(domain.Goal) bool) []domain.Goal {
	out := make([]domain.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		if match == nil || match(g) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) ListGoals(_ context.Context) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedGoals(nil), nil
}

func (s *Store) ListGoalsByType(_ context.Context, goalType domain.GoalType) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedGoals(func(g domain.Goal) bool { return g.Type == goalType }), nil
}

func (s *Store) FindLatestGoalByTitle(_ context.Context, fragment string) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(fragment)
	matches := s.sortedGoals(func(g domain.Goal) bool {
		return strings.Contains(strings.ToLower(g.Title), needle)
	})
	if len(matches) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &matches[0], nil
}

func (s *Store) SaveGoal(_ context.Context, goal domain.Goal) error {
	s.mu.Lock()
	s.goals = append(s.goals, goal)
	s.mu.Unlock()

	s.publish("goals", "INSERT", goal.GoalID)
	return nil
}

func (s *Store) IncrementGoalCurrentAmount(_ context.Context, goalID string, amount decimal.Decimal) error {
	s.mu.Lock()
	found := false
	for i := range s.goals {
		if s.goals[i].GoalID == goalID {
			s.goals[i].CurrentAmount = s.goals[i].CurrentAmount.Add(amount)
			s.goals[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return apperrors.ErrNotFound
	}
	s.publish("goals", "UPDATE", goalID)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, goalID string) error {
	s.mu.Lock()
	idx := -1
	for i, g := range s.goals {
		if g.GoalID == goalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	s.mu.Unlock()

	s.publish("goals", "DELETE", goalID)
	return nil
}

// --- categories ---

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.Category(nil), s.categories...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) FindCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) SaveCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	for _, c := range s.categories {
		if c.Name == category.Name {
			s.mu.Unlock()
			return apperrors.ErrDuplicate
		}
	}
	s.categories = append(s.categories, category)
	s.mu.Unlock()

	s.publish("categories", "INSERT", category.CategoryID)
	return nil
}

// --- members and sessions ---

func (s *Store) FindMemberByID(_ context.Context, memberID string) (*domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.members {
		if r.member.MemberID == memberID {
			m := r.member
			return &m, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindMemberCredentials(_ context.Context, name string) (*domain.Member, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.members {
		if r.member.Name == name {
			m := r.member
			return &m, r.pinHash, nil
		}
	}
	return nil, "", apperrors.ErrNotFound
}

func (s *Store) ListMembers(_ context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Member, 0, len(s.members))
	for _, r := range s.members {
		out = append(out, r.member)
	}
	return out, nil
}

func (s *Store) RegisterMember(_ context.Context, member domain.Member, pinHash string, session domain.MemberSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.members {
		if r.member.Name == member.Name {
			return apperrors.ErrDuplicate
		}
	}
	s.members = append(s.members, memberRecord{member: member, pinHash: pinHash})
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) SaveSession(_ context.Context, session domain.MemberSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) FindSessionByID(_ context.Context, sessionID string) (*domain.MemberSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &session, nil
}

func (s *Store) RevokeSession(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if session.RevokedAt == nil {
		session.RevokedAt = &at
		s.sessions[sessionID] = session
	}
	return nil
}

// --- change feed ---

// Subscribe registers a listener for writes made through this store.
func (s *Store) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, 16)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subscribers, ch)
		close(ch)
		s.subMu.Unlock()
	}()
	return ch, nil
}

// publish never blocks; a slow subscriber misses events.
func (s *Store) publish(table, op, rowID string) {
	evt := domain.ChangeEvent{Table: table, Operation: op, RowID: rowID}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}
