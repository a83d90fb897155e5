package domain

import (
	"strings"
	"time"
)

type TenderStatus string

const (
	TenderDraft     TenderStatus = "draft"
	TenderPublished TenderStatus = "published"
	TenderClosed    TenderStatus = "closed"
	TenderAwarded   TenderStatus = "awarded"
	TenderCancelled TenderStatus = "cancelled"
)

type Tender struct {
	ID              int64
	OwnerID         int64
	Title           string
	Description     string
	EstimatedBudget *int64
	Status          TenderStatus
	PublishAt       *time.Time
	CloseAt         *time.Time
	CreatedAt       time.Time
}

func (t Tender) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ResourceFault(ErrInvalidInput, "tender", t.ID)
	}
	if strings.TrimSpace(t.Description) == "" {
		return ResourceFault(ErrInvalidInput, "tender", t.ID)
	}
	if t.EstimatedBudget != nil && *t.EstimatedBudget < 0 {
		return ResourceFault(ErrInvalidInput, "tender", t.ID)
	}
	return nil
}

// CanTransition enumerates the lifecycle graph. awarded and cancelled
// are terminal.
func CanTransition(from, to TenderStatus) bool {
	switch from {
	case TenderDraft:
		return to == TenderPublished || to == TenderCancelled
	case TenderPublished:
		return to == TenderClosed || to == TenderAwarded || to == TenderCancelled
	case TenderClosed:
		return to == TenderAwarded
	}
	return false
}

// Terminal reports whether no further transition exists out of s.
func (s TenderStatus) Terminal() bool {
	return s == TenderAwarded || s == TenderCancelled
}

// EffectiveStatus reports the status a reader must observe at now: a
// published tender whose close_at has elapsed is logically closed even
// if the stored row still says published. The stored row is only
// brought up to date by the next mutating call.
func (t Tender) EffectiveStatus(now time.Time) TenderStatus {
	if t.Status == TenderPublished && t.CloseAt != nil && !now.Before(*t.CloseAt) {
		return TenderClosed
	}
	return t.Status
}

// AcceptsSubmissions reports whether a bid may be taken at now.
func (t Tender) AcceptsSubmissions(now time.Time) bool {
	return t.EffectiveStatus(now) == TenderPublished
}
