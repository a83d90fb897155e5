package usecase

import (
	"context"
	"io"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
)

// DocumentService stores document metadata and gates downloads by
// visibility. Blob bytes are delegated to the external blob store.
type DocumentService struct {
	docs  ports.DocumentRepo
	blobs ports.BlobStore
}

func NewDocumentService(docs ports.DocumentRepo, blobs ports.BlobStore) *DocumentService {
	return &DocumentService{docs: docs, blobs: blobs}
}

func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, tenderID *int64, filename, mimeType string, visibility domain.Visibility, r io.Reader) (domain.Document, error) {
	if visibility == "" {
		visibility = domain.VisibilityInternal
	}
	if !visibility.Valid() {
		return domain.Document{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceDocument, 0)
	}
	if filename == "" {
		filename = "unnamed"
	}

	storedPath, checksum, err := s.blobs.Put(ctx, filename, r)
	if err != nil {
		return domain.Document{}, err
	}

	ownerID := actor.ID
	doc := domain.Document{
		OwnerID:          &ownerID,
		TenderID:         tenderID,
		OriginalFilename: filename,
		StoredPath:       storedPath,
		MimeType:         mimeType,
		Checksum:         checksum,
		Visibility:       visibility,
	}

	payload := map[string]any{"visibility": string(visibility)}
	if tenderID != nil {
		payload["tender_id"] = *tenderID
	}
	created, err := s.docs.Create(ctx, doc, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionDocumentUpload,
		ResourceType: domain.ResourceDocument,
		Payload:      domain.CanonicalPayload(payload),
	})
	if err != nil {
		// metadata write failed: the orphaned blob must not linger
		_ = s.blobs.Remove(ctx, storedPath)
		return domain.Document{}, err
	}
	return created, nil
}

func (s *DocumentService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Document, error) {
	return s.docs.ListByOwner(ctx, actor.ID)
}

// Open returns the document metadata and a reader over its bytes,
// after the visibility gate.
func (s *DocumentService) Open(ctx context.Context, actor domain.Actor, documentID int64) (domain.Document, io.ReadCloser, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return domain.Document{}, nil, err
	}
	if !doc.CanAccess(actor) {
		return domain.Document{}, nil, domain.ResourceFault(domain.ErrForbidden, domain.ResourceDocument, documentID)
	}

	r, err := s.blobs.Open(ctx, doc.StoredPath)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return doc, r, nil
}

func (s *DocumentService) Delete(ctx context.Context, actor domain.Actor, documentID int64) error {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.OwnerID == nil || *doc.OwnerID != actor.ID {
		if !actor.IsAdmin() {
			return domain.ResourceFault(domain.ErrForbidden, domain.ResourceDocument, documentID)
		}
	}

	if err := s.docs.Delete(ctx, documentID, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionDocumentDelete,
		ResourceType: domain.ResourceDocument,
		ResourceID:   formatID(documentID),
		Payload:      domain.CanonicalPayload(nil),
	}); err != nil {
		return err
	}

	// blob removal is best effort once the metadata row is gone
	_ = s.blobs.Remove(ctx, doc.StoredPath)
	return nil
}
