package domain

import (
	"encoding/json"
	"time"
)

// AccountInput is the request-scoped payload for a CRM account.
// Website and Phone are optional.
type AccountInput struct {
	Name    string `json:"account_name"`
	Website string `json:"account_website,omitempty"`
	Phone   string `json:"account_phone,omitempty"`
}

// Validate checks the account payload before any network call.
func (a AccountInput) Validate() error {
	if a.Name == "" || len(a.Name) > 255 {
		return ErrInvalidInput
	}
	return nil
}

// DealInput is the request-scoped payload for a CRM deal.
type DealInput struct {
	Name  string `json:"deal_name"`
	Stage string `json:"deal_stage"`
}

// Validate checks the deal payload before any network call.
func (d DealInput) Validate() error {
	if d.Name == "" || len(d.Name) > 255 {
		return ErrInvalidInput
	}
	if d.Stage == "" || len(d.Stage) > 100 {
		return ErrInvalidInput
	}
	return nil
}

// DealStage is one selectable pipeline stage from the Deals Stage picklist.
type DealStage struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CreateResult carries the raw account and deal records exactly as Zoho
// returned them (first elements of the respective data arrays).
type CreateResult struct {
	Account json.RawMessage `json:"account"`
	Deal    json.RawMessage `json:"deal"`
}

// OrphanedRecord is an audit entry for a record left behind by a partial
// dependent create (account created, deal failed). There is no automatic
// compensation; operators clean these up out of band.
type OrphanedRecord struct {
	ID        string    `json:"id"`
	Module    string    `json:"module"`
	RecordID  string    `json:"record_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
