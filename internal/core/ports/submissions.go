package ports

import (
	"context"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

type SubmissionStore interface {
	Create(ctx context.Context, s domain.Submission, draft domain.LedgerDraft) (domain.Submission, error)
	Get(ctx context.Context, id int64) (domain.Submission, error)
	ListByTender(ctx context.Context, tenderID int64) ([]domain.Submission, error)
	ListByBidder(ctx context.Context, bidderID int64) ([]domain.Submission, error)
	// ExistsForBidder backs the one-active-submission-per-tender rule
	// for disclosed bids.
	ExistsForBidder(ctx context.Context, tenderID, bidderID int64) (bool, error)
	// ExistsCommitment rejects replay of an identical anonymous
	// commitment on the same tender.
	ExistsCommitment(ctx context.Context, tenderID int64, commitment string) (bool, error)
}
