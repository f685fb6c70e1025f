package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driving"
)

// Ensure crmService implements CRMService
var _ driving.CRMService = (*crmService)(nil)

const (
	moduleAccounts = "Accounts"
	moduleDeals    = "Deals"
	stageFieldName = "Stage"
)

// CRMServiceConfig holds configuration for the CRM gateway.
type CRMServiceConfig struct {
	// Tokens hands out valid access tokens, refreshing as needed.
	Tokens driving.TokenService

	// CRM performs the outbound resource calls.
	CRM driven.CRMClient

	// Orphans records accounts left behind by partial creates.
	Orphans driven.OrphanStore

	Logger *slog.Logger
}

// crmService implements the CRMService interface.
type crmService struct {
	tokens  driving.TokenService
	crm     driven.CRMClient
	orphans driven.OrphanStore
	logger  *slog.Logger
}

// NewCRMService creates a new CRM gateway.
func NewCRMService(cfg CRMServiceConfig) driving.CRMService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &crmService{
		tokens:  cfg.Tokens,
		crm:     cfg.CRM,
		orphans: cfg.Orphans,
		logger:  logger,
	}
}

// DealStages fetches the Deals field metadata and extracts the Stage
// picklist. A response without a Stage field yields ErrStagesUnavailable;
// nothing is retried.
func (s *crmService) DealStages(ctx context.Context) ([]domain.DealStage, error) {
	grant, err := s.tokens.ValidAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.stages(ctx, grant)
}

func (s *crmService) stages(ctx context.Context, grant *domain.AccessGrant) ([]domain.DealStage, error) {
	fields, err := s.crm.ModuleFields(ctx, grant.Region, grant.Token, moduleDeals)
	if err != nil {
		return nil, fmt.Errorf("fetch deal fields: %w", err)
	}

	for _, field := range fields {
		if field.APIName != stageFieldName {
			continue
		}
		stages := make([]domain.DealStage, 0, len(field.PickListValues))
		for _, opt := range field.PickListValues {
			stages = append(stages, domain.DealStage{
				Value: opt.ActualValue,
				Label: opt.DisplayValue,
			})
		}
		return stages, nil
	}

	return nil, domain.ErrStagesUnavailable
}

// CreateAccountAndDeal creates an account, then a deal linked to it.
// The deal stage is validated against the live picklist before any write.
// No transaction spans the two POSTs; a deal failure leaves the account
// in place and records it as orphaned.
func (s *crmService) CreateAccountAndDeal(ctx context.Context, account domain.AccountInput, deal domain.DealInput) (*domain.CreateResult, error) {
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	if err := deal.Validate(); err != nil {
		return nil, fmt.Errorf("deal: %w", err)
	}

	grant, err := s.tokens.ValidAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	stages, err := s.stages(ctx, grant)
	if err != nil {
		return nil, fmt.Errorf("validate deal stage: %w", err)
	}
	if !stageAllowed(stages, deal.Stage) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStage, deal.Stage)
	}

	accountPayload := map[string]any{
		"Account_Name": account.Name,
	}
	if account.Website != "" {
		accountPayload["Website"] = account.Website
	}
	if account.Phone != "" {
		accountPayload["Phone"] = account.Phone
	}

	accountRes, err := s.crm.CreateRecord(ctx, grant.Region, grant.Token, moduleAccounts, accountPayload)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if len(accountRes.Data) == 0 || accountRes.Data[0].Details.ID == "" {
		return nil, &domain.ProviderError{Op: "create account", Detail: accountRes.Raw}
	}

	accountID := accountRes.Data[0].Details.ID
	accountRaw := accountRes.Data[0].Raw

	dealPayload := map[string]any{
		"Deal_Name":    deal.Name,
		"Stage":        deal.Stage,
		"Account_Name": map[string]any{"id": accountID},
	}

	dealRes, err := s.crm.CreateRecord(ctx, grant.Region, grant.Token, moduleDeals, dealPayload)
	if err != nil {
		s.recordOrphan(ctx, accountID, "deal creation failed: "+err.Error())
		detail, _ := json.Marshal(map[string]string{"error": err.Error()})
		return nil, &domain.PartialCreateError{AccountID: accountID, Account: accountRaw, Detail: detail}
	}
	if len(dealRes.Data) == 0 {
		s.recordOrphan(ctx, accountID, "deal creation rejected by provider")
		return nil, &domain.PartialCreateError{AccountID: accountID, Account: accountRaw, Detail: dealRes.Raw}
	}

	return &domain.CreateResult{
		Account: accountRaw,
		Deal:    dealRes.Data[0].Raw,
	}, nil
}

// Orphans lists recorded orphaned records.
func (s *crmService) Orphans(ctx context.Context) ([]*domain.OrphanedRecord, error) {
	return s.orphans.List(ctx)
}

// recordOrphan writes an audit entry for an account left behind by a
// partial create. Failures are logged, never surfaced: they must not
// mask the deal-creation error the caller is about to see.
func (s *crmService) recordOrphan(ctx context.Context, accountID, reason string) {
	rec := &domain.OrphanedRecord{
		ID:       uuid.NewString(),
		Module:   moduleAccounts,
		RecordID: accountID,
		Reason:   reason,
	}
	if err := s.orphans.Save(ctx, rec); err != nil {
		s.logger.Error("failed to record orphaned account", "account_id", accountID, "error", err)
		return
	}
	s.logger.Warn("orphaned account recorded", "account_id", accountID, "reason", reason)
}

func stageAllowed(stages []domain.DealStage, stage string) bool {
	for _, s := range stages {
		if s.Value == stage {
			return true
		}
	}
	return false
}
