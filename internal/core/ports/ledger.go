package ports

import (
	"context"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// Ledger reads the audit chain and appends entries that have no
// companion domain mutation (login events). Stores tied to a domain
// row append their entries themselves, inside the row's transaction.
type Ledger interface {
	Append(ctx context.Context, draft domain.LedgerDraft) (domain.AuditLogEntry, error)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error)
	// Range returns entries with from <= id <= to in ascending id
	// order; to == 0 means the chain tail.
	Range(ctx context.Context, from, to int64) ([]domain.AuditLogEntry, error)
}
