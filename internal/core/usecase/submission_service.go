package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
)

// SubmissionService owns bid intake: disclosed bids stored in clear,
// anonymous bids stored as a commitment digest with the bidder
// identity withheld.
type SubmissionService struct {
	submissions ports.SubmissionStore
	tenders     ports.TenderStore
	locks       *TenderLocks
	now         func() time.Time
}

func NewSubmissionService(submissions ports.SubmissionStore, tenders ports.TenderStore, locks *TenderLocks) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		tenders:     tenders,
		locks:       locks,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type SubmissionInput struct {
	Amount      *int64
	Notes       string
	Details     json.RawMessage
	IsAnonymous bool
	// Payload and Nonce are required for anonymous submissions; only
	// their commitment digest is stored in queryable form.
	Payload string
	Nonce   string
}

func (s *SubmissionService) Create(ctx context.Context, actor domain.Actor, tenderID int64, in SubmissionInput) (domain.Submission, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Submission{}, err
	}
	defer release()

	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return domain.Submission{}, err
	}
	if !t.AcceptsSubmissions(s.now()) {
		return domain.Submission{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}

	sub := domain.Submission{
		TenderID:    tenderID,
		IsAnonymous: in.IsAnonymous,
		Amount:      in.Amount,
		Notes:       in.Notes,
		Details:     in.Details,
	}

	if in.IsAnonymous {
		if strings.TrimSpace(in.Payload) == "" || strings.TrimSpace(in.Nonce) == "" {
			return domain.Submission{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceSubmission, 0)
		}
		sub.Commitment = domain.ComputeCommitment(in.Payload, in.Nonce)
		sub.NonceHint = domain.NonceHint(in.Nonce)
		sub.SealedPayload = in.Payload
		// the clear amount is withheld so it cannot be correlated
		// with the commitment before reveal
		sub.Amount = nil
		sub.BidderID = nil
		sub.Details = nil

		taken, err := s.submissions.ExistsCommitment(ctx, tenderID, sub.Commitment)
		if err != nil {
			return domain.Submission{}, err
		}
		if taken {
			return domain.Submission{}, domain.ResourceFault(domain.ErrDuplicateSubmission, domain.ResourceTender, tenderID)
		}
	} else {
		bidderID := actor.ID
		sub.BidderID = &bidderID

		if actor.IsBidder() || sub.Details != nil {
			if sub.Details == nil {
				return domain.Submission{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceSubmission, 0)
			}
			if err := validateBidDetails(sub.Details); err != nil {
				return domain.Submission{}, err
			}
		}

		exists, err := s.submissions.ExistsForBidder(ctx, tenderID, bidderID)
		if err != nil {
			return domain.Submission{}, err
		}
		if exists {
			return domain.Submission{}, domain.ResourceFault(domain.ErrDuplicateSubmission, domain.ResourceTender, tenderID)
		}
	}

	if err := sub.Validate(); err != nil {
		return domain.Submission{}, err
	}

	return s.submissions.Create(ctx, sub, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionSubmissionCreate,
		ResourceType: domain.ResourceSubmission,
		Payload: domain.CanonicalPayload(map[string]any{
			"tender_id":    tenderID,
			"is_anonymous": in.IsAnonymous,
		}),
	})
}

// RevealAndVerify recomputes the commitment digest from the revealed
// payload and nonce. It succeeds only on an exact match and never
// mutates the submission.
func (s *SubmissionService) RevealAndVerify(ctx context.Context, submissionID int64, payload, nonce string) (bool, error) {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return false, err
	}
	if !sub.IsAnonymous || sub.Commitment == "" {
		return false, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceSubmission, submissionID)
	}
	return domain.VerifyCommitment(sub.Commitment, payload, nonce), nil
}

// ListByTender is restricted to the tender owner and admins.
func (s *SubmissionService) ListByTender(ctx context.Context, actor domain.Actor, tenderID int64) ([]domain.Submission, error) {
	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageTender(t) {
		return nil, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}
	return s.submissions.ListByTender(ctx, tenderID)
}

func (s *SubmissionService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Submission, error) {
	return s.submissions.ListByBidder(ctx, actor.ID)
}

// Get is visible to the tender owner, the disclosing bidder, and
// admins.
func (s *SubmissionService) Get(ctx context.Context, actor domain.Actor, submissionID int64) (domain.Submission, error) {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}

	if sub.BidderID != nil && *sub.BidderID == actor.ID {
		return sub, nil
	}
	if actor.IsAdmin() {
		return sub, nil
	}
	t, err := s.tenders.Get(ctx, sub.TenderID)
	if err != nil {
		return domain.Submission{}, err
	}
	if t.OwnerID == actor.ID {
		return sub, nil
	}
	return domain.Submission{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceSubmission, submissionID)
}
