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

type UserStore struct {
	db *gormsqlite.DB
}

func NewUserStore(db *gormsqlite.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u domain.User, draft domain.LedgerDraft) (domain.User, error) {
	var created userModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		model := userModel{
			Email:        u.Email,
			FullName:     u.FullName,
			PasswordHash: u.PasswordHash,
			Role:         string(u.Role),
			Active:       u.Active,
			CreatedAt:    now,
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		draft.ActorID = &model.ID
		draft.ResourceID = formatRowID(model.ID)
		if err := recordMutationTx(tx.DB, draft, now); err != nil {
			return err
		}
		created = model
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return created.toDomain(), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var model userModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("email = ?", email).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return model.toDomain(), nil
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (domain.User, error) {
	var model userModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceUser, id)
		}
		return domain.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return model.toDomain(), nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&userModel{}).Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
