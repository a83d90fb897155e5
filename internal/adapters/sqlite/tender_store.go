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

// TenderStore commits every tender mutation together with its ledger
// entry and outbox event. If any of the three writes fails the
// transaction rolls back and the mutation never happened.
type TenderStore struct {
	db *gormsqlite.DB
}

func NewTenderStore(db *gormsqlite.DB) *TenderStore {
	return &TenderStore{db: db}
}

func (s *TenderStore) Create(ctx context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	var created tenderModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		model := tenderToModel(t)
		model.ID = 0
		model.CreatedAt = now
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert tender: %w", err)
		}

		draft.ResourceID = formatRowID(model.ID)
		if err := recordMutationTx(tx.DB, draft, now); err != nil {
			return err
		}
		created = model
		return nil
	})
	if err != nil {
		return domain.Tender{}, err
	}
	return created.toDomain(), nil
}

func (s *TenderStore) Save(ctx context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	var saved tenderModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		var existing tenderModel
		if err := tx.Where("id = ?", t.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, t.ID)
			}
			return fmt.Errorf("load tender: %w", err)
		}

		model := tenderToModel(t)
		model.CreatedAt = existing.CreatedAt
		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("save tender: %w", err)
		}

		draft.ResourceID = formatRowID(model.ID)
		if err := recordMutationTx(tx.DB, draft, time.Now().UTC()); err != nil {
			return err
		}
		saved = model
		return nil
	})
	if err != nil {
		return domain.Tender{}, err
	}
	return saved.toDomain(), nil
}

// Award flips the tender to awarded and flags the winning submission in
// one transaction. The stored status is re-checked inside the
// transaction: two racing award calls serialize on the writer
// connection and the loser sees the tender already awarded.
func (s *TenderStore) Award(ctx context.Context, t domain.Tender, submissionID int64, draft domain.LedgerDraft) (domain.Tender, error) {
	var awarded tenderModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		var stored tenderModel
		if err := tx.Where("id = ?", t.ID).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, t.ID)
			}
			return fmt.Errorf("load tender: %w", err)
		}
		switch domain.TenderStatus(stored.Status) {
		case domain.TenderAwarded:
			return domain.ResourceFault(domain.ErrAlreadyAwarded, domain.ResourceTender, t.ID)
		case domain.TenderPublished, domain.TenderClosed:
		default:
			return domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, t.ID)
		}

		var sub submissionModel
		if err := tx.Where("id = ? AND tender_id = ?", submissionID, t.ID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, submissionID)
			}
			return fmt.Errorf("load submission: %w", err)
		}

		if err := tx.Model(&tenderModel{}).Where("id = ?", t.ID).
			Update("status", string(domain.TenderAwarded)).Error; err != nil {
			return fmt.Errorf("award tender: %w", err)
		}
		if err := tx.Model(&submissionModel{}).Where("id = ?", submissionID).
			Update("winning", true).Error; err != nil {
			return fmt.Errorf("flag winning submission: %w", err)
		}

		draft.ResourceID = formatRowID(t.ID)
		if err := recordMutationTx(tx.DB, draft, time.Now().UTC()); err != nil {
			return err
		}

		stored.Status = string(domain.TenderAwarded)
		awarded = stored
		return nil
	})
	if err != nil {
		return domain.Tender{}, err
	}
	return awarded.toDomain(), nil
}

func (s *TenderStore) Get(ctx context.Context, id int64) (domain.Tender, error) {
	var model tenderModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, id)
		}
		return domain.Tender{}, fmt.Errorf("get tender: %w", err)
	}
	return model.toDomain(), nil
}

func (s *TenderStore) List(ctx context.Context) ([]domain.Tender, error) {
	var models []tenderModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Order("id DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	result := make([]domain.Tender, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}
