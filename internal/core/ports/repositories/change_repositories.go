package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// ChangeFeed streams change notifications for transactions, goals and categories.
type ChangeFeed interface {
	// Subscribe returns a channel of events that is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
