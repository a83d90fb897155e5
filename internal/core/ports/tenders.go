package ports

import (
	"context"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// TenderStore persists tenders. Every mutating method commits the
// domain change, its ledger entry, and its outbox event in one
// transaction: either all become visible or none do.
type TenderStore interface {
	Create(ctx context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error)
	Save(ctx context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error)
	// Award sets the tender to awarded and flags the submission as
	// winning in the same transaction as the single tender.award
	// ledger entry.
	Award(ctx context.Context, t domain.Tender, submissionID int64, draft domain.LedgerDraft) (domain.Tender, error)
	Get(ctx context.Context, id int64) (domain.Tender, error)
	List(ctx context.Context) ([]domain.Tender, error)
}
