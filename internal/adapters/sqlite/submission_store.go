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

type SubmissionStore struct {
	db *gormsqlite.DB
}

func NewSubmissionStore(db *gormsqlite.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, sub domain.Submission, draft domain.LedgerDraft) (domain.Submission, error) {
	var created submissionModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		model := submissionToModel(sub)
		model.ID = 0
		model.CreatedAt = now
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}

		draft.ResourceID = formatRowID(model.ID)
		if err := recordMutationTx(tx.DB, draft, now); err != nil {
			return err
		}
		created = model
		return nil
	})
	if err != nil {
		return domain.Submission{}, err
	}
	return created.toDomain(), nil
}

func (s *SubmissionStore) Get(ctx context.Context, id int64) (domain.Submission, error) {
	var model submissionModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Submission{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, id)
		}
		return domain.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return model.toDomain(), nil
}

func (s *SubmissionStore) ListByTender(ctx context.Context, tenderID int64) ([]domain.Submission, error) {
	return s.list(ctx, "tender_id = ?", tenderID)
}

func (s *SubmissionStore) ListByBidder(ctx context.Context, bidderID int64) ([]domain.Submission, error) {
	return s.list(ctx, "bidder_id = ?", bidderID)
}

func (s *SubmissionStore) list(ctx context.Context, cond string, arg int64) ([]domain.Submission, error) {
	var models []submissionModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where(cond, arg).Order("id ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	result := make([]domain.Submission, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (s *SubmissionStore) ExistsForBidder(ctx context.Context, tenderID, bidderID int64) (bool, error) {
	var count int64
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&submissionModel{}).
			Where("tender_id = ? AND bidder_id = ?", tenderID, bidderID).
			Count(&count).Error
	})
	if err != nil {
		return false, fmt.Errorf("count bidder submissions: %w", err)
	}
	return count > 0, nil
}

func (s *SubmissionStore) ExistsCommitment(ctx context.Context, tenderID int64, commitment string) (bool, error) {
	var count int64
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&submissionModel{}).
			Where("tender_id = ? AND commitment = ?", tenderID, commitment).
			Count(&count).Error
	})
	if err != nil {
		return false, fmt.Errorf("count commitments: %w", err)
	}
	return count > 0, nil
}
