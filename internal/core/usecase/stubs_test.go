package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

// memStore is an in-memory TenderStore + SubmissionStore + Ledger used
// by the service tests. Mutations append chained ledger entries the
// same way the sqlite store does, so tests can assert on the chain.
type memStore struct {
	mu          sync.Mutex
	tenders     map[int64]domain.Tender
	submissions map[int64]domain.Submission
	entries     []domain.AuditLogEntry
	nextTender  int64
	nextSub     int64

	failNextWrite error
}

func newMemStore() *memStore {
	return &memStore{
		tenders:     make(map[int64]domain.Tender),
		submissions: make(map[int64]domain.Submission),
		nextTender:  1,
		nextSub:     1,
	}
}

func (m *memStore) appendEntryLocked(draft domain.LedgerDraft) domain.AuditLogEntry {
	prev := domain.GenesisSignature
	if len(m.entries) > 0 {
		prev = m.entries[len(m.entries)-1].ImmutableSignature
	}
	now := time.Now().UTC()
	entry := domain.AuditLogEntry{
		ID:                 int64(len(m.entries) + 1),
		ActorID:            draft.ActorID,
		Action:             draft.Action,
		ResourceType:       draft.ResourceType,
		ResourceID:         draft.ResourceID,
		Payload:            draft.Payload,
		CreatedAt:          now,
		ImmutableSignature: domain.ChainSignature(prev, draft, now),
	}
	m.entries = append(m.entries, entry)
	return entry
}

func (m *memStore) Create(_ context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextWrite != nil {
		err := m.failNextWrite
		m.failNextWrite = nil
		return domain.Tender{}, err
	}
	t.ID = m.nextTender
	m.nextTender++
	t.CreatedAt = time.Now().UTC()
	m.tenders[t.ID] = t
	draft.ResourceID = formatID(t.ID)
	m.appendEntryLocked(draft)
	return t, nil
}

func (m *memStore) Save(_ context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextWrite != nil {
		err := m.failNextWrite
		m.failNextWrite = nil
		return domain.Tender{}, err
	}
	if _, ok := m.tenders[t.ID]; !ok {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, t.ID)
	}
	m.tenders[t.ID] = t
	m.appendEntryLocked(draft)
	return t, nil
}

func (m *memStore) Award(_ context.Context, t domain.Tender, submissionID int64, draft domain.LedgerDraft) (domain.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tenders[t.ID]
	if !ok {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, t.ID)
	}
	if stored.Status == domain.TenderAwarded {
		return domain.Tender{}, domain.ResourceFault(domain.ErrAlreadyAwarded, domain.ResourceTender, t.ID)
	}
	sub, ok := m.submissions[submissionID]
	if !ok || sub.TenderID != t.ID {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, submissionID)
	}
	sub.Winning = true
	m.submissions[submissionID] = sub
	m.tenders[t.ID] = t
	m.appendEntryLocked(draft)
	return t, nil
}

func (m *memStore) Get(_ context.Context, id int64) (domain.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenders[id]
	if !ok {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, id)
	}
	return t, nil
}

func (m *memStore) List(_ context.Context) ([]domain.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Tender, 0, len(m.tenders))
	for _, t := range m.tenders {
		out = append(out, t)
	}
	return out, nil
}

type memSubmissions struct {
	*memStore
}

func (m *memStore) CreateSubmission(_ context.Context, s domain.Submission, draft domain.LedgerDraft) (domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextWrite != nil {
		err := m.failNextWrite
		m.failNextWrite = nil
		return domain.Submission{}, err
	}
	s.ID = m.nextSub
	m.nextSub++
	s.CreatedAt = time.Now().UTC()
	m.submissions[s.ID] = s
	draft.ResourceID = formatID(s.ID)
	m.appendEntryLocked(draft)
	return s, nil
}

func (m *memSubmissions) Create(ctx context.Context, s domain.Submission, draft domain.LedgerDraft) (domain.Submission, error) {
	return m.CreateSubmission(ctx, s, draft)
}

func (m *memSubmissions) Get(_ context.Context, id int64) (domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return domain.Submission{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, id)
	}
	return s, nil
}

func (m *memSubmissions) ListByTender(_ context.Context, tenderID int64) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Submission
	for _, s := range m.submissions {
		if s.TenderID == tenderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubmissions) ListByBidder(_ context.Context, bidderID int64) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Submission
	for _, s := range m.submissions {
		if s.BidderID != nil && *s.BidderID == bidderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubmissions) ExistsForBidder(_ context.Context, tenderID, bidderID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.submissions {
		if s.TenderID == tenderID && s.BidderID != nil && *s.BidderID == bidderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSubmissions) ExistsCommitment(_ context.Context, tenderID int64, commitment string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.submissions {
		if s.TenderID == tenderID && s.Commitment == commitment {
			return true, nil
		}
	}
	return false, nil
}

type memLedger struct {
	*memStore
}

func (m *memLedger) Append(_ context.Context, draft domain.LedgerDraft) (domain.AuditLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendEntryLocked(draft), nil
}

func (m *memLedger) List(_ context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && e.ResourceType != filter.ResourceType {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memLedger) Range(_ context.Context, from, to int64) ([]domain.AuditLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, e := range m.entries {
		if e.ID < from {
			continue
		}
		if to > 0 && e.ID > to {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// actions returns the recorded ledger actions in append order.
func (m *memStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}
