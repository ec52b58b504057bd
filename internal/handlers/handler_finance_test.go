package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/dto"
)

func TestFinanceHandler_ListTransactions(t *testing.T) {
	env := newTestEnv(t)
	next := "page-2"
	txns := []domain.Transaction{{
		TransactionID: "t1",
		Description:   "Mercado",
		Amount:        decimal.NewFromInt(50),
		Type:          domain.Expense,
		Category:      "Alimentação",
		Date:          time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Person:        "Ana",
	}}
	env.finance.On("ListTransactions", mock.Anything, 10, (*string)(nil)).Return(txns, &next, nil).Once()

	w := env.serve(env.request(http.MethodGet, "/api/v1/transactions?limit=10", "", true))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "Mercado", resp.Transactions[0].Description)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "page-2", *resp.NextToken)
}

func TestFinanceHandler_ListTransactionsBadToken(t *testing.T) {
	env := newTestEnv(t)
	env.finance.On("ListTransactions", mock.Anything, 50, mock.Anything).Return(nil, nil, apperrors.ErrValidation).Once()

	w := env.serve(env.request(http.MethodGet, "/api/v1/transactions?nextToken=garbage", "", true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinanceHandler_Summary(t *testing.T) {
	env := newTestEnv(t)
	env.finance.On("GetSummary", mock.Anything).Return(&domain.FinanceSummary{
		Income:   decimal.NewFromInt(5000),
		Expenses: decimal.NewFromInt(700),
		Balance:  decimal.NewFromInt(4300),
	}, nil).Once()

	w := env.serve(env.request(http.MethodGet, "/api/v1/summary", "", true))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "R$ 4.300,00")
}

func TestFinanceHandler_ListFailure(t *testing.T) {
	env := newTestEnv(t)
	env.finance.On("ListGoals", mock.Anything).Return(nil, assert.AnError).Once()

	w := env.serve(env.request(http.MethodGet, "/api/v1/goals", "", true))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFinanceHandler_StreamChanges(t *testing.T) {
	env := newTestEnv(t)
	ch := make(chan domain.ChangeEvent, 2)
	ch <- domain.ChangeEvent{Table: "transactions", Operation: "INSERT", RowID: "t1"}
	ch <- domain.ChangeEvent{Table: "goals", Operation: "UPDATE", RowID: "g1"}
	close(ch)
	env.finance.On("SubscribeChanges", mock.Anything).Return((<-chan domain.ChangeEvent)(ch), nil).Once()

	// EventSource clients pass the token as a query parameter.
	w := env.serve(env.request(http.MethodGet, "/api/v1/changes?access_token="+testToken, "", false))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event:change"))
	assert.Contains(t, body, `"table":"transactions"`)
	assert.Contains(t, body, `"rowID":"g1"`)
}

func TestFinanceHandler_StreamChangesWithoutFeed(t *testing.T) {
	env := newTestEnv(t)
	env.finance.On("SubscribeChanges", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := env.serve(env.request(http.MethodGet, "/api/v1/changes", "", true))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
