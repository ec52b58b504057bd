package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	base  time.Time
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewStore()
	s.base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) txn(id, desc string, date time.Time, createdOffset time.Duration) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Description:   desc,
		Amount:        decimal.NewFromInt(10),
		Type:          domain.Expense,
		Category:      "Alimentação",
		Date:          date,
		Person:        "Ana",
		Timestamps:    domain.Timestamps{CreatedAt: s.base.Add(createdOffset), UpdatedAt: s.base.Add(createdOffset)},
	}
}

func (s *StoreTestSuite) TestSeedsDefaultCategories() {
	cats, err := s.store.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(cats, len(domain.DefaultCategories))
	for _, c := range cats {
		s.True(c.IsDefault)
		s.NotEmpty(c.CategoryID)
	}
}

func (s *StoreTestSuite) TestListCategories_DefaultsFirst() {
	s.Require().NoError(s.store.SaveCategory(s.ctx, domain.Category{CategoryID: "c-1", Name: "Academia", Icon: domain.DefaultCategoryIcon}))
	cats, err := s.store.ListCategories(s.ctx)
	s.Require().NoError(err)
	last := cats[len(cats)-1]
	s.Equal("Academia", last.Name)
	s.False(last.IsDefault)
}

func (s *StoreTestSuite) TestSaveCategory_Duplicate() {
	err := s.store.SaveCategory(s.ctx, domain.Category{CategoryID: "x", Name: "Transporte"})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestListTransactions_OrderAndCursor() {
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, t := range []domain.Transaction{
		s.txn("a", "Mercado", day1, 0),
		s.txn("b", "Padaria", day2, time.Minute),
		s.txn("c", "Farmácia", day2, 2*time.Minute),
	} {
		s.Require().NoError(s.store.SaveTransaction(s.ctx, t))
	}

	page, err := s.store.ListTransactions(s.ctx, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("c", page[0].TransactionID)
	s.Equal("b", page[1].TransactionID)

	cursor := &portsrepo.TransactionCursor{Date: page[1].Date, CreatedAt: page[1].CreatedAt}
	rest, err := s.store.ListTransactions(s.ctx, 2, cursor)
	s.Require().NoError(err)
	s.Require().Len(rest, 1)
	s.Equal("a", rest[0].TransactionID)
}

func (s *StoreTestSuite) TestFindLatestTransactionByDescription() {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.SaveTransaction(s.ctx, s.txn("old", "Uber centro", day, 0)))
	s.Require().NoError(s.store.SaveTransaction(s.ctx, s.txn("new", "UBER aeroporto", day, time.Hour)))

	found, err := s.store.FindLatestTransactionByDescription(s.ctx, "uber")
	s.Require().NoError(err)
	s.Equal("new", found.TransactionID)

	_, err = s.store.FindLatestTransactionByDescription(s.ctx, "ifood")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestDeleteTransaction() {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.SaveTransaction(s.ctx, s.txn("a", "Mercado", day, 0)))
	s.Require().NoError(s.store.DeleteTransaction(s.ctx, "a"))
	s.ErrorIs(s.store.DeleteTransaction(s.ctx, "a"), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestSums() {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	food := s.txn("a", "Mercado", day, 0)
	car := s.txn("b", "Gasolina", day, time.Minute)
	car.Category = "Transporte"
	car.Amount = decimal.NewFromInt(40)
	salary := s.txn("c", "Salário", day, 2*time.Minute)
	salary.Type = domain.Income
	salary.Amount = decimal.NewFromInt(3000)
	for _, t := range []domain.Transaction{food, car, salary} {
		s.Require().NoError(s.store.SaveTransaction(s.ctx, t))
	}

	sums, err := s.store.SumByType(s.ctx)
	s.Require().NoError(err)
	s.True(sums[domain.Expense].Equal(decimal.NewFromInt(50)))
	s.True(sums[domain.Income].Equal(decimal.NewFromInt(3000)))

	breakdown, err := s.store.SumExpensesByCategory(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(breakdown, 2)
	s.Equal("Transporte", breakdown[0].Category)
	s.Equal("Alimentação", breakdown[1].Category)
}

func (s *StoreTestSuite) TestGoals() {
	cat := "Alimentação"
	older := domain.Goal{GoalID: "g1", Title: "Viagem", Type: domain.Savings, TargetAmount: decimal.NewFromInt(1000), Timestamps: domain.Timestamps{CreatedAt: s.base}}
	newer := domain.Goal{GoalID: "g2", Title: "Limite mercado", Type: domain.Limit, Category: &cat, TargetAmount: decimal.NewFromInt(800), Timestamps: domain.Timestamps{CreatedAt: s.base.Add(time.Hour)}}
	s.Require().NoError(s.store.SaveGoal(s.ctx, older))
	s.Require().NoError(s.store.SaveGoal(s.ctx, newer))

	all, err := s.store.ListGoals(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"g2", "g1"}, []string{all[0].GoalID, all[1].GoalID})

	limits, err := s.store.ListGoalsByType(s.ctx, domain.Limit)
	s.Require().NoError(err)
	s.Require().Len(limits, 1)
	s.Equal("g2", limits[0].GoalID)

	s.Require().NoError(s.store.IncrementGoalCurrentAmount(s.ctx, "g2", decimal.NewFromInt(25)))
	s.Require().NoError(s.store.IncrementGoalCurrentAmount(s.ctx, "g2", decimal.NewFromInt(5)))
	found, err := s.store.FindLatestGoalByTitle(s.ctx, "MERCADO")
	s.Require().NoError(err)
	s.True(found.CurrentAmount.Equal(decimal.NewFromInt(30)))

	s.ErrorIs(s.store.IncrementGoalCurrentAmount(s.ctx, "missing", decimal.NewFromInt(1)), apperrors.ErrNotFound)
	s.Require().NoError(s.store.DeleteGoal(s.ctx, "g1"))
	s.ErrorIs(s.store.DeleteGoal(s.ctx, "g1"), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestMembersAndSessions() {
	member := domain.Member{MemberID: "m1", Name: "Ana"}
	session := domain.MemberSession{SessionID: "s1", MemberID: "m1", ExpiresAt: s.base.Add(time.Hour)}
	s.Require().NoError(s.store.RegisterMember(s.ctx, member, "hash", session))
	s.ErrorIs(s.store.RegisterMember(s.ctx, domain.Member{MemberID: "m2", Name: "Ana"}, "h", domain.MemberSession{SessionID: "s2"}), apperrors.ErrDuplicate)

	got, hash, err := s.store.FindMemberCredentials(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal("m1", got.MemberID)
	s.Equal("hash", hash)

	stored, err := s.store.FindSessionByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.True(stored.IsActive(s.base))

	s.Require().NoError(s.store.RevokeSession(s.ctx, "s1", s.base))
	stored, err = s.store.FindSessionByID(s.ctx, "s1")
	s.Require().NoError(err)
	s.False(stored.IsActive(s.base))
	s.ErrorIs(s.store.RevokeSession(s.ctx, "nope", s.base), apperrors.ErrNotFound)
}

func TestStore_ChangeFeed(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := store.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SaveGoal(context.Background(), domain.Goal{GoalID: "g1", Title: "Viagem"}))
	assert.Equal(t, domain.ChangeEvent{Table: "goals", Operation: "INSERT", RowID: "g1"}, <-events)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("feed not closed after cancel")
	}
}
