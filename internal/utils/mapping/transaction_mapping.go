package mapping

import (
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Description:   d.Description,
		Amount:        d.Amount,
		Type:          string(d.Type),
		Category:      d.Category,
		Date:          d.Date,
		Person:        d.Person,
		MemberID:      toNullString(d.MemberID),
		PaymentMethod: toNullString(d.PaymentMethod),
		Location:      toNullString(d.Location),
		Timestamps: models.Timestamps{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		Category:      m.Category,
		Date:          m.Date,
		Person:        m.Person,
		MemberID:      fromNullString(m.MemberID),
		PaymentMethod: fromNullString(m.PaymentMethod),
		Location:      fromNullString(m.Location),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
