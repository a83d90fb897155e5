package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/adapters/sqlite/gormsqlite"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// appendLedgerTx chains a new entry onto the ledger inside the caller's
// write transaction. The previous signature is read under the same
// transaction, so the single-writer connection makes the chain
// linearizable: no two entries can ever claim the same predecessor.
func appendLedgerTx(tx *gorm.DB, draft domain.LedgerDraft, now time.Time) (auditLogModel, error) {
	prev := domain.GenesisSignature
	var last auditLogModel
	err := tx.Order("id DESC").First(&last).Error
	switch {
	case err == nil:
		prev = last.ImmutableSignature
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return auditLogModel{}, fmt.Errorf("%w: read chain tail: %v", domain.ErrLedgerWrite, err)
	}

	payload := string(draft.Payload)
	if payload == "" {
		payload = "{}"
	}

	entry := auditLogModel{
		ActorID:            draft.ActorID,
		Action:             draft.Action,
		ResourceType:       draft.ResourceType,
		ResourceID:         draft.ResourceID,
		PayloadJSON:        payload,
		CreatedAt:          domain.FormatSignatureTime(now),
		ImmutableSignature: domain.ChainSignature(prev, draft, now),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return auditLogModel{}, fmt.Errorf("%w: insert entry: %v", domain.ErrLedgerWrite, err)
	}
	return entry, nil
}

// insertOutboxTx queues the committed mutation for the dispatcher, in
// the same transaction as the domain row and ledger entry.
func insertOutboxTx(tx *gorm.DB, draft domain.LedgerDraft, now time.Time) error {
	envelope := domain.EventEnvelope{
		EventID:      uuid.NewString(),
		EventType:    draft.Action,
		ResourceType: draft.ResourceType,
		ResourceID:   draft.ResourceID,
		ActorID:      draft.ActorID,
		OccurredAt:   now,
		Payload:      draft.Payload,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	row := outboxEventModel{
		EventID:       envelope.EventID,
		Topic:         "events." + draft.Action,
		PayloadJSON:   string(payload),
		Status:        "pending",
		Attempts:      0,
		NextAttemptAt: now,
		LastError:     "",
		CreatedAt:     now,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// recordMutationTx appends the ledger entry and its outbox twin for a
// committed mutation.
func recordMutationTx(tx *gorm.DB, draft domain.LedgerDraft, now time.Time) error {
	if _, err := appendLedgerTx(tx, draft, now); err != nil {
		return err
	}
	return insertOutboxTx(tx, draft, now)
}

// LedgerStore reads the audit chain and appends the entries that carry
// no companion domain row.
type LedgerStore struct {
	db *gormsqlite.DB
}

func NewLedgerStore(db *gormsqlite.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Append(ctx context.Context, draft domain.LedgerDraft) (domain.AuditLogEntry, error) {
	var entry auditLogModel
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		var err error
		entry, err = appendLedgerTx(tx.DB, draft, now)
		if err != nil {
			return err
		}
		return insertOutboxTx(tx.DB, draft, now)
	})
	if err != nil {
		return domain.AuditLogEntry{}, err
	}
	return entry.toDomain()
}

func (s *LedgerStore) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	var rows []auditLogModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&auditLogModel{})
		if filter.ResourceType != "" {
			query = query.Where("resource_type = ?", filter.ResourceType)
		}
		if filter.ResourceID != "" {
			query = query.Where("resource_id = ?", filter.ResourceID)
		}
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.AfterID > 0 {
			query = query.Where("id < ?", filter.AfterID)
		}
		return query.Order("id DESC").Limit(filter.Limit).Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return rowsToEntries(rows)
}

func (s *LedgerStore) Range(ctx context.Context, from, to int64) ([]domain.AuditLogEntry, error) {
	var rows []auditLogModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&auditLogModel{}).Where("id >= ?", from)
		if to > 0 {
			query = query.Where("id <= ?", to)
		}
		return query.Order("id ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("range ledger: %w", err)
	}
	return rowsToEntries(rows)
}

func rowsToEntries(rows []auditLogModel) ([]domain.AuditLogEntry, error) {
	result := make([]domain.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ledger entry %d: %w", row.ID, err)
		}
		result = append(result, entry)
	}
	return result, nil
}
