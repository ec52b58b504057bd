package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// ListCategories returns defaults first, then by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory inserts a category. A name that already exists yields ErrDuplicate.
	SaveCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
