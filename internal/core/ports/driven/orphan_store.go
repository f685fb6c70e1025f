package driven

import (
	"context"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// OrphanStore records CRM records left behind by partial dependent
// creates, so operators can clean them up later. Recording must never
// mask the original failure.
type OrphanStore interface {
	Save(ctx context.Context, rec *domain.OrphanedRecord) error
	List(ctx context.Context) ([]*domain.OrphanedRecord, error)
}
