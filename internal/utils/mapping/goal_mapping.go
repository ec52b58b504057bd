package mapping

import (
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/models"
)

// ToModelGoal converts a domain Goal to a model Goal
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:        d.GoalID,
		Title:         d.Title,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		Type:          string(d.Type),
		Category:      toNullString(d.Category),
		Period:        d.Period,
		StartDate:     d.StartDate,
		EndDate:       toNullTime(d.EndDate),
		MemberID:      toNullString(d.MemberID),
		Timestamps: models.Timestamps{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

// ToDomainGoal converts a model Goal to a domain Goal
func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:        m.GoalID,
		Title:         m.Title,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		Type:          domain.GoalType(m.Type),
		Category:      fromNullString(m.Category),
		Period:        m.Period,
		StartDate:     m.StartDate,
		EndDate:       fromNullTime(m.EndDate),
		MemberID:      fromNullString(m.MemberID),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainGoalSlice converts a slice of model Goals to domain Goals
func ToDomainGoalSlice(ms []models.Goal) []domain.Goal {
	ds := make([]domain.Goal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoal(m)
	}
	return ds
}
