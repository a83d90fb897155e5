package sqlite

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// formatRowID renders a row id the way ledger entries reference
// resources.
func formatRowID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	FullName     string    `gorm:"column:full_name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

type tenderModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID         int64      `gorm:"column:owner_id;not null;index"`
	Title           string     `gorm:"column:title;not null"`
	Description     string     `gorm:"column:description;not null"`
	EstimatedBudget *int64     `gorm:"column:estimated_budget"`
	Status          string     `gorm:"column:status;not null;index"`
	PublishAt       *time.Time `gorm:"column:publish_at"`
	CloseAt         *time.Time `gorm:"column:close_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
}

func (tenderModel) TableName() string { return "tenders" }

func tenderToModel(t domain.Tender) tenderModel {
	return tenderModel{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Title:           t.Title,
		Description:     t.Description,
		EstimatedBudget: t.EstimatedBudget,
		Status:          string(t.Status),
		PublishAt:       t.PublishAt,
		CloseAt:         t.CloseAt,
		CreatedAt:       t.CreatedAt,
	}
}

func (m tenderModel) toDomain() domain.Tender {
	return domain.Tender{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		Title:           m.Title,
		Description:     m.Description,
		EstimatedBudget: m.EstimatedBudget,
		Status:          domain.TenderStatus(m.Status),
		PublishAt:       m.PublishAt,
		CloseAt:         m.CloseAt,
		CreatedAt:       m.CreatedAt,
	}
}

type submissionModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TenderID      int64     `gorm:"column:tender_id;not null;index"`
	BidderID      *int64    `gorm:"column:bidder_id;index"`
	IsAnonymous   bool      `gorm:"column:is_anonymous;not null"`
	Commitment    string    `gorm:"column:commitment;not null"`
	NonceHint     string    `gorm:"column:nonce_hint;not null"`
	SealedPayload string    `gorm:"column:sealed_payload;not null"`
	Amount        *int64    `gorm:"column:amount"`
	Notes         string    `gorm:"column:notes;not null"`
	DetailsJSON   string    `gorm:"column:details_json;not null"`
	Winning       bool      `gorm:"column:winning;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (submissionModel) TableName() string { return "submissions" }

func submissionToModel(s domain.Submission) submissionModel {
	details := ""
	if s.Details != nil {
		details = string(s.Details)
	}
	return submissionModel{
		ID:            s.ID,
		TenderID:      s.TenderID,
		BidderID:      s.BidderID,
		IsAnonymous:   s.IsAnonymous,
		Commitment:    s.Commitment,
		NonceHint:     s.NonceHint,
		SealedPayload: s.SealedPayload,
		Amount:        s.Amount,
		Notes:         s.Notes,
		DetailsJSON:   details,
		Winning:       s.Winning,
		CreatedAt:     s.CreatedAt,
	}
}

func (m submissionModel) toDomain() domain.Submission {
	var details json.RawMessage
	if m.DetailsJSON != "" {
		details = json.RawMessage(m.DetailsJSON)
	}
	return domain.Submission{
		ID:            m.ID,
		TenderID:      m.TenderID,
		BidderID:      m.BidderID,
		IsAnonymous:   m.IsAnonymous,
		Commitment:    m.Commitment,
		NonceHint:     m.NonceHint,
		SealedPayload: m.SealedPayload,
		Amount:        m.Amount,
		Notes:         m.Notes,
		Details:       details,
		Winning:       m.Winning,
		CreatedAt:     m.CreatedAt,
	}
}

type documentModel struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID          *int64    `gorm:"column:owner_id;index"`
	TenderID         *int64    `gorm:"column:tender_id;index"`
	OriginalFilename string    `gorm:"column:original_filename;not null"`
	StoredPath       string    `gorm:"column:stored_path;not null"`
	MimeType         string    `gorm:"column:mime_type;not null"`
	Checksum         string    `gorm:"column:checksum;not null"`
	Visibility       string    `gorm:"column:visibility;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null"`
}

func (documentModel) TableName() string { return "documents" }

func documentToModel(d domain.Document) documentModel {
	return documentModel{
		ID:               d.ID,
		OwnerID:          d.OwnerID,
		TenderID:         d.TenderID,
		OriginalFilename: d.OriginalFilename,
		StoredPath:       d.StoredPath,
		MimeType:         d.MimeType,
		Checksum:         d.Checksum,
		Visibility:       string(d.Visibility),
		CreatedAt:        d.CreatedAt,
	}
}

func (m documentModel) toDomain() domain.Document {
	return domain.Document{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		TenderID:         m.TenderID,
		OriginalFilename: m.OriginalFilename,
		StoredPath:       m.StoredPath,
		MimeType:         m.MimeType,
		Checksum:         m.Checksum,
		Visibility:       domain.Visibility(m.Visibility),
		CreatedAt:        m.CreatedAt,
	}
}

// auditLogModel stores created_at as the exact fixed-width string that
// went into the signature, so a reload verifies byte for byte.
type auditLogModel struct {
	ID                 int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ActorID            *int64 `gorm:"column:actor_id"`
	Action             string `gorm:"column:action;not null;index"`
	ResourceType       string `gorm:"column:resource_type;not null;index"`
	ResourceID         string `gorm:"column:resource_id;not null;index"`
	PayloadJSON        string `gorm:"column:payload_json;not null"`
	CreatedAt          string `gorm:"column:created_at;not null"`
	ImmutableSignature string `gorm:"column:immutable_signature;not null"`
}

func (auditLogModel) TableName() string { return "audit_log" }

func (m auditLogModel) toDomain() (domain.AuditLogEntry, error) {
	createdAt, err := domain.ParseSignatureTime(m.CreatedAt)
	if err != nil {
		return domain.AuditLogEntry{}, err
	}
	return domain.AuditLogEntry{
		ID:                 m.ID,
		ActorID:            m.ActorID,
		Action:             m.Action,
		ResourceType:       m.ResourceType,
		ResourceID:         m.ResourceID,
		Payload:            json.RawMessage(m.PayloadJSON),
		CreatedAt:          createdAt,
		ImmutableSignature: m.ImmutableSignature,
	}, nil
}

type outboxEventModel struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	EventID       string     `gorm:"column:event_id;not null"`
	Topic         string     `gorm:"column:topic;not null"`
	PayloadJSON   string     `gorm:"column:payload_json;not null"`
	Status        string     `gorm:"column:status;not null;index"`
	Attempts      int        `gorm:"column:attempts;not null"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at;not null"`
	LastError     string     `gorm:"column:last_error;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null"`
	DispatchedAt  *time.Time `gorm:"column:dispatched_at"`
}

func (outboxEventModel) TableName() string { return "outbox_events" }
