package ports

import (
	"context"
	"io"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// DocumentRepo persists document metadata alongside its ledger entry.
type DocumentRepo interface {
	Create(ctx context.Context, d domain.Document, draft domain.LedgerDraft) (domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Document, error)
	Delete(ctx context.Context, id int64, draft domain.LedgerDraft) error
}

// BlobStore is the external document store collaborator: it holds the
// bytes, the core holds the metadata and the visibility gate.
type BlobStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (storedPath, checksum string, err error)
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
	Remove(ctx context.Context, storedPath string) error
}
