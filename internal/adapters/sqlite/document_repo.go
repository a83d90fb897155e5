package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/sqlite/gormsqlite"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

type DocumentRepo struct {
	db *gormsqlite.DB
}

func NewDocumentRepo(db *gormsqlite.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, d domain.Document, draft domain.LedgerDraft) (domain.Document, error) {
	var created documentModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		model := documentToModel(d)
		model.ID = 0
		model.CreatedAt = now
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		draft.ResourceID = formatRowID(model.ID)
		if err := recordMutationTx(tx.DB, draft, now); err != nil {
			return err
		}
		created = model
		return nil
	})
	if err != nil {
		return domain.Document{}, err
	}
	return created.toDomain(), nil
}

func (r *DocumentRepo) Get(ctx context.Context, id int64) (domain.Document, error) {
	var model documentModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Document{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceDocument, id)
		}
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return model.toDomain(), nil
}

func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Document, error) {
	var models []documentModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("owner_id = ?", ownerID).Order("id DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	result := make([]domain.Document, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id int64, draft domain.LedgerDraft) error {
	return r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("id = ?", id).Delete(&documentModel{})
		if res.Error != nil {
			return fmt.Errorf("delete document: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ResourceFault(domain.ErrNotFound, domain.ResourceDocument, id)
		}
		return recordMutationTx(tx.DB, draft, time.Now().UTC())
	})
}
