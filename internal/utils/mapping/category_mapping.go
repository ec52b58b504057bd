package mapping

import (
	"database/sql"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/models"
)

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID: d.CategoryID,
		Name:       d.Name,
		Icon:       sql.NullString{String: d.Icon, Valid: d.Icon != ""},
		IsDefault:  sql.NullBool{Bool: d.IsDefault, Valid: true},
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainCategory converts a model Category to a domain Category.
// A NULL icon falls back to the generic icon; a NULL is_default reads as false.
func ToDomainCategory(m models.Category) domain.Category {
	icon := domain.DefaultCategoryIcon
	if m.Icon.Valid && m.Icon.String != "" {
		icon = m.Icon.String
	}
	return domain.Category{
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Icon:       icon,
		IsDefault:  m.IsDefault.Valid && m.IsDefault.Bool,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainCategorySlice converts a slice of model Categories to domain Categories
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	ds := make([]domain.Category, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
