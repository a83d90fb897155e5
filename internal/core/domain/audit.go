package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Recorded operations. Only successful mutations are audited.
const (
	ActionTenderCreate     = "tender.create"
	ActionTenderUpdate     = "tender.update"
	ActionTenderPublish    = "tender.publish"
	ActionTenderClose      = "tender.close"
	ActionTenderCancel     = "tender.cancel"
	ActionTenderAward      = "tender.award"
	ActionSubmissionCreate = "submission.create"
	ActionDocumentUpload   = "document.upload"
	ActionDocumentDelete   = "document.delete"
	ActionUserRegister     = "user.register"
	ActionUserLogin        = "user.login"
)

const (
	ResourceTender     = "tender"
	ResourceSubmission = "submission"
	ResourceDocument   = "document"
	ResourceUser       = "user"
)

// GenesisSignature seeds the chain for the first ledger entry.
const GenesisSignature = "GENESIS"

// signatureTimeLayout is fixed-width so the signed timestamp survives
// a database round trip byte for byte.
const signatureTimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatSignatureTime renders a timestamp in the exact form that was
// signed. Stores persist this string, not a driver-formatted time.
func FormatSignatureTime(t time.Time) string {
	return t.UTC().Format(signatureTimeLayout)
}

// ParseSignatureTime is the inverse of FormatSignatureTime.
func ParseSignatureTime(s string) (time.Time, error) {
	return time.Parse(signatureTimeLayout, s)
}

// AuditLogEntry is one link of the append-only signed ledger. Entries
// are never updated or deleted; the id sequence has no gaps.
type AuditLogEntry struct {
	ID                 int64
	ActorID            *int64
	Action             string
	ResourceType       string
	ResourceID         string
	Payload            json.RawMessage
	CreatedAt          time.Time
	ImmutableSignature string
}

// LedgerDraft carries the fields of an entry before the store assigns
// its id and chains its signature. Payload must already be in
// canonical form (CanonicalPayload).
type LedgerDraft struct {
	ActorID      *int64
	Action       string
	ResourceType string
	ResourceID   string
	Payload      json.RawMessage
}

// CanonicalPayload serializes an audit payload with sorted keys so the
// signed bytes are deterministic.
func CanonicalPayload(fields map[string]any) json.RawMessage {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// ChainSignature binds an entry to the previous entry's signature and
// to its own content. prev is GenesisSignature for the first entry.
func ChainSignature(prev string, draft LedgerDraft, createdAt time.Time) string {
	actor := "0"
	if draft.ActorID != nil {
		actor = strconv.FormatInt(*draft.ActorID, 10)
	}
	payload := string(draft.Payload)
	if payload == "" {
		payload = "{}"
	}
	base := strings.Join([]string{
		prev,
		actor,
		draft.Action,
		draft.ResourceType,
		draft.ResourceID,
		createdAt.UTC().Format(signatureTimeLayout),
		payload,
	}, "|")
	digest := sha256.Sum256([]byte(base))
	return hex.EncodeToString(digest[:])
}

// VerifyEntry recomputes an entry's signature given its predecessor's.
func VerifyEntry(prev string, entry AuditLogEntry) bool {
	want := ChainSignature(prev, LedgerDraft{
		ActorID:      entry.ActorID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Payload:      entry.Payload,
	}, entry.CreatedAt)
	return want == entry.ImmutableSignature
}

// AuditFilter narrows ledger listings.
type AuditFilter struct {
	ResourceType string
	ResourceID   string
	Action       string
	AfterID      int64
	Limit        int
}
