package mapping

import (
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/models"
)

// ToDomainMember converts a model Member to a domain Member. The PIN hash is dropped.
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID: m.MemberID,
		Name:     m.Name,
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainMemberSession converts a model MemberSession to a domain MemberSession
func ToDomainMemberSession(m models.MemberSession) domain.MemberSession {
	return domain.MemberSession{
		SessionID: m.SessionID,
		MemberID:  m.MemberID,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: fromNullTime(m.RevokedAt),
		CreatedAt: m.CreatedAt,
	}
}
