package usecase

import (
	"context"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
)

// AwardService is the only component allowed to move a tender into
// awarded. The store call flips the tender status, flags the winning
// submission, and appends the single tender.award ledger entry in one
// transaction; the tender lock makes two racing awards resolve to
// exactly one winner.
type AwardService struct {
	tenders     ports.TenderStore
	submissions ports.SubmissionStore
	locks       *TenderLocks
	now         func() time.Time
}

func NewAwardService(tenders ports.TenderStore, submissions ports.SubmissionStore, locks *TenderLocks) *AwardService {
	return &AwardService{
		tenders:     tenders,
		submissions: submissions,
		locks:       locks,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AwardInput carries the reveal material required when the chosen
// submission is anonymous.
type AwardInput struct {
	SubmissionID int64
	Payload      string
	Nonce        string
}

func (s *AwardService) Award(ctx context.Context, actor domain.Actor, tenderID int64, in AwardInput) (domain.Tender, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	defer release()

	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if !actor.CanManageTender(t) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}

	switch t.EffectiveStatus(s.now()) {
	case domain.TenderPublished, domain.TenderClosed:
		// awardable
	case domain.TenderAwarded:
		return domain.Tender{}, domain.ResourceFault(domain.ErrAlreadyAwarded, domain.ResourceTender, tenderID)
	default:
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}

	sub, err := s.submissions.Get(ctx, in.SubmissionID)
	if err != nil {
		return domain.Tender{}, err
	}
	if sub.TenderID != tenderID {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, in.SubmissionID)
	}

	// An anonymous winner must be revealed before it can be credited;
	// a mismatch aborts with no side effects.
	if sub.IsAnonymous {
		if !domain.VerifyCommitment(sub.Commitment, in.Payload, in.Nonce) {
			return domain.Tender{}, domain.ResourceFault(domain.ErrRevealMismatch, domain.ResourceSubmission, in.SubmissionID)
		}
	}

	t.Status = domain.TenderAwarded
	return s.tenders.Award(ctx, t, sub.ID, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderAward,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload: domain.CanonicalPayload(map[string]any{
			"submission_id": sub.ID,
			"is_anonymous":  sub.IsAnonymous,
		}),
	})
}
