package domain

import (
	"encoding/json"
	"time"
)

// Submission is immutable once created except for the winning flag,
// which only the award coordinator sets.
type Submission struct {
	ID            int64
	TenderID      int64
	BidderID      *int64
	IsAnonymous   bool
	Commitment    string
	NonceHint     string
	SealedPayload string
	Amount        *int64
	Notes         string
	Details       json.RawMessage
	Winning       bool
	CreatedAt     time.Time
}

// BidDetails are the structured fields a disclosed bidder supplies.
// Their shape is enforced by the embedded JSON schema in the
// submission engine; this struct is the decoded form.
type BidDetails struct {
	CompanyName    string `json:"company_name"`
	TaxNumber      string `json:"tax_number"`
	CSDNumber      string `json:"csd_number"`
	BBBEELevel     string `json:"bbbee_level"`
	YearsInService string `json:"years_in_service"`
}

func (s Submission) Validate() error {
	if s.TenderID == 0 {
		return ResourceFault(ErrInvalidInput, "submission", s.ID)
	}
	if s.Amount != nil && *s.Amount < 0 {
		return ResourceFault(ErrInvalidInput, "submission", s.ID)
	}
	if s.IsAnonymous {
		if s.Commitment == "" {
			return ResourceFault(ErrInvalidInput, "submission", s.ID)
		}
		if s.BidderID != nil {
			return ResourceFault(ErrInvalidInput, "submission", s.ID)
		}
	}
	if s.Details != nil && !json.Valid(s.Details) {
		return ResourceFault(ErrInvalidInput, "submission", s.ID)
	}
	return nil
}
