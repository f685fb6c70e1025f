package driving

import (
	"context"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
)

// CRMService performs the authenticated CRM operations. Every method
// derives its own valid token from the token lifecycle; callers never
// pass tokens in.
type CRMService interface {
	// DealStages fetches the live Stage picklist of the Deals module.
	DealStages(ctx context.Context) ([]domain.DealStage, error)

	// CreateAccountAndDeal creates an account, then a deal referencing
	// it. There is no transaction across the two writes: a deal failure
	// leaves the account in place, records it as orphaned, and returns
	// *domain.PartialCreateError.
	CreateAccountAndDeal(ctx context.Context, account domain.AccountInput, deal domain.DealInput) (*domain.CreateResult, error)

	// Orphans lists recorded orphaned records.
	Orphans(ctx context.Context) ([]*domain.OrphanedRecord, error)
}
