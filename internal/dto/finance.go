package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/utils"
)

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse is a transaction as shown on the dashboard.
type TransactionResponse struct {
	TransactionID string          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	Person        string          `json:"person"`
	MemberID      *string         `json:"member_id,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Location      *string         `json:"location,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// GoalResponse is a goal with its progress percentage.
type GoalResponse struct {
	GoalID        string          `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Progress      decimal.Decimal `json:"progress"`
	Type          string          `json:"type"`
	Category      *string         `json:"category"`
	Period        string          `json:"period"`
	StartDate     string          `json:"start_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CategoryResponse is a category and its icon name.
type CategoryResponse struct {
	CategoryID string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	IsDefault  bool   `json:"is_default"`
}

// SummaryResponse carries the household totals, raw and formatted as reais.
type SummaryResponse struct {
	Income            decimal.Decimal `json:"income"`
	Expenses          decimal.Decimal `json:"expenses"`
	Balance           decimal.Decimal `json:"balance"`
	IncomeFormatted   string          `json:"income_formatted"`
	ExpensesFormatted string          `json:"expenses_formatted"`
	BalanceFormatted  string          `json:"balance_formatted"`
}

// CategoryAmountResponse is one slice of the expense breakdown.
type CategoryAmountResponse struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Category:      t.Category,
		Date:          t.Date.Format(domain.DateLayout),
		Person:        t.Person,
		MemberID:      t.MemberID,
		PaymentMethod: t.PaymentMethod,
		Location:      t.Location,
		CreatedAt:     t.CreatedAt,
	}
}

func ToListTransactionsResponse(txns []domain.Transaction, next *string) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = ToTransactionResponse(t)
	}
	return ListTransactionsResponse{Transactions: out, NextToken: next}
}

func ToGoalResponse(g domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		Type:          string(g.Type),
		Category:      g.Category,
		Period:        g.Period,
		StartDate:     g.StartDate.Format(domain.DateLayout),
		CreatedAt:     g.CreatedAt,
	}
}

func ToGoalResponses(goals []domain.Goal) []GoalResponse {
	out := make([]GoalResponse, len(goals))
	for i, g := range goals {
		out[i] = ToGoalResponse(g)
	}
	return out
}

func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Icon: c.Icon, IsDefault: c.IsDefault}
	}
	return out
}

func ToSummaryResponse(s *domain.FinanceSummary) SummaryResponse {
	return SummaryResponse{
		Income:            s.Income,
		Expenses:          s.Expenses,
		Balance:           s.Balance,
		IncomeFormatted:   utils.FormatBRL(s.Income),
		ExpensesFormatted: utils.FormatBRL(s.Expenses),
		BalanceFormatted:  utils.FormatBRL(s.Balance),
	}
}

func ToCategoryAmountResponses(breakdown []domain.CategoryAmount) []CategoryAmountResponse {
	out := make([]CategoryAmountResponse, len(breakdown))
	for i, b := range breakdown {
		out[i] = CategoryAmountResponse{Category: b.Category, Amount: b.Amount, Formatted: utils.FormatBRL(b.Amount)}
	}
	return out
}
