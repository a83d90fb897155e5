package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/usecase"
)

// fakeBackend is a single in-memory store behind every port the
// handler's services need, so routing and status mapping are tested
// without a database.
type fakeBackend struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	tenders     map[int64]domain.Tender
	submissions map[int64]domain.Submission
	entries     []domain.AuditLogEntry
	nextID      int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:       make(map[int64]domain.User),
		tenders:     make(map[int64]domain.Tender),
		submissions: make(map[int64]domain.Submission),
		nextID:      1,
	}
}

func (f *fakeBackend) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeBackend) appendLocked(draft domain.LedgerDraft) domain.AuditLogEntry {
	prev := domain.GenesisSignature
	if len(f.entries) > 0 {
		prev = f.entries[len(f.entries)-1].ImmutableSignature
	}
	now := time.Now().UTC()
	entry := domain.AuditLogEntry{
		ID:                 int64(len(f.entries) + 1),
		ActorID:            draft.ActorID,
		Action:             draft.Action,
		ResourceType:       draft.ResourceType,
		ResourceID:         draft.ResourceID,
		Payload:            draft.Payload,
		CreatedAt:          now,
		ImmutableSignature: domain.ChainSignature(prev, draft, now),
	}
	f.entries = append(f.entries, entry)
	return entry
}

// ports.UserStore

func (f *fakeBackend) Create(ctx context.Context, u domain.User, draft domain.LedgerDraft) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.id()
	u.CreatedAt = time.Now().UTC()
	f.users[u.ID] = u
	f.appendLocked(draft)
	return u, nil
}

func (f *fakeBackend) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeBackend) FindByID(_ context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeBackend) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// tenderPort and submissionPort wrap fakeBackend because TenderStore
// and SubmissionStore both declare Create and Get.

type tenderPort struct{ f *fakeBackend }

func (p tenderPort) Create(_ context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	t.ID = p.f.id()
	t.CreatedAt = time.Now().UTC()
	p.f.tenders[t.ID] = t
	p.f.appendLocked(draft)
	return t, nil
}

func (p tenderPort) Save(_ context.Context, t domain.Tender, draft domain.LedgerDraft) (domain.Tender, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	p.f.tenders[t.ID] = t
	p.f.appendLocked(draft)
	return t, nil
}

func (p tenderPort) Award(_ context.Context, t domain.Tender, submissionID int64, draft domain.LedgerDraft) (domain.Tender, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	stored := p.f.tenders[t.ID]
	if stored.Status == domain.TenderAwarded {
		return domain.Tender{}, domain.ResourceFault(domain.ErrAlreadyAwarded, domain.ResourceTender, t.ID)
	}
	stored.Status = domain.TenderAwarded
	p.f.tenders[t.ID] = stored
	sub := p.f.submissions[submissionID]
	sub.Winning = true
	p.f.submissions[submissionID] = sub
	p.f.appendLocked(draft)
	return stored, nil
}

func (p tenderPort) Get(_ context.Context, id int64) (domain.Tender, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	t, ok := p.f.tenders[id]
	if !ok {
		return domain.Tender{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceTender, id)
	}
	return t, nil
}

func (p tenderPort) List(_ context.Context) ([]domain.Tender, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []domain.Tender
	for _, t := range p.f.tenders {
		out = append(out, t)
	}
	return out, nil
}

type submissionPort struct{ f *fakeBackend }

func (p submissionPort) Create(_ context.Context, s domain.Submission, draft domain.LedgerDraft) (domain.Submission, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	s.ID = p.f.id()
	s.CreatedAt = time.Now().UTC()
	p.f.submissions[s.ID] = s
	p.f.appendLocked(draft)
	return s, nil
}

func (p submissionPort) Get(_ context.Context, id int64) (domain.Submission, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	s, ok := p.f.submissions[id]
	if !ok {
		return domain.Submission{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceSubmission, id)
	}
	return s, nil
}

func (p submissionPort) ListByTender(_ context.Context, tenderID int64) ([]domain.Submission, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []domain.Submission
	for _, s := range p.f.submissions {
		if s.TenderID == tenderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (p submissionPort) ListByBidder(_ context.Context, bidderID int64) ([]domain.Submission, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []domain.Submission
	for _, s := range p.f.submissions {
		if s.BidderID != nil && *s.BidderID == bidderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (p submissionPort) ExistsForBidder(_ context.Context, tenderID, bidderID int64) (bool, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, s := range p.f.submissions {
		if s.TenderID == tenderID && s.BidderID != nil && *s.BidderID == bidderID {
			return true, nil
		}
	}
	return false, nil
}

func (p submissionPort) ExistsCommitment(_ context.Context, tenderID int64, commitment string) (bool, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, s := range p.f.submissions {
		if s.TenderID == tenderID && s.Commitment == commitment {
			return true, nil
		}
	}
	return false, nil
}

type ledgerPort struct{ f *fakeBackend }

func (p ledgerPort) Append(_ context.Context, draft domain.LedgerDraft) (domain.AuditLogEntry, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return p.f.appendLocked(draft), nil
}

func (p ledgerPort) List(_ context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []domain.AuditLogEntry
	for i := len(p.f.entries) - 1; i >= 0; i-- {
		out = append(out, p.f.entries[i])
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (p ledgerPort) Range(_ context.Context, from, to int64) ([]domain.AuditLogEntry, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, e := range p.f.entries {
		if e.ID < from || (to > 0 && e.ID > to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type docPort struct{ f *fakeBackend }

func (p docPort) Create(_ context.Context, d domain.Document, draft domain.LedgerDraft) (domain.Document, error) {
	d.ID = 1
	return d, nil
}
func (p docPort) Get(_ context.Context, id int64) (domain.Document, error) {
	return domain.Document{}, domain.ResourceFault(domain.ErrNotFound, domain.ResourceDocument, id)
}
func (p docPort) ListByOwner(context.Context, int64) ([]domain.Document, error) { return nil, nil }
func (p docPort) Delete(_ context.Context, id int64, _ domain.LedgerDraft) error {
	return domain.ResourceFault(domain.ErrNotFound, domain.ResourceDocument, id)
}

type blobPort struct{}

func (blobPort) Put(_ context.Context, filename string, r io.Reader) (string, string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "1_" + filename, "checksum", nil
}
func (blobPort) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (blobPort) Remove(context.Context, string) error { return nil }

func testRouter(t *testing.T) (http.Handler, *fakeBackend) {
	t.Helper()
	f := newFakeBackend()
	locks := usecase.NewTenderLocks(time.Second)
	ledger := usecase.NewLedgerService(ledgerPort{f})
	auth := usecase.NewAuthService(f, ledger, "test-secret", time.Hour)
	tenders := usecase.NewTenderService(tenderPort{f}, locks)
	submissions := usecase.NewSubmissionService(submissionPort{f}, tenderPort{f}, locks)
	awards := usecase.NewAwardService(tenderPort{f}, submissionPort{f}, locks)
	documents := usecase.NewDocumentService(docPort{f}, blobPort{})
	return NewHandler(auth, tenders, submissions, awards, ledger, documents).Router(), f
}

func registerAndLogin(t *testing.T, h http.Handler, email string, role domain.Role) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","role":%q}`, email, role)
	rec := doRequest(h, http.MethodPost, "/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodPost, "/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func doRequest(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	h, _ := testRouter(t)
	rec := doRequest(h, http.MethodGet, "/v1/tenders", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	h, _ := testRouter(t)
	token := registerAndLogin(t, h, "issuer@example.org", domain.RoleIssuer)

	rec := doRequest(h, http.MethodGet, "/v1/auth/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Role != "issuer" {
		t.Fatalf("role = %s", me.Role)
	}
}

func TestTenderLifecycleOverHTTP(t *testing.T) {
	h, _ := testRouter(t)
	issuer := registerAndLogin(t, h, "issuer@example.org", domain.RoleIssuer)
	bidder := registerAndLogin(t, h, "bidder@example.org", domain.RoleBidder)

	rec := doRequest(h, http.MethodPost, "/v1/tenders", `{"title":"Road works","description":"N2"}`, issuer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tender: %d %s", rec.Code, rec.Body.String())
	}
	var tender struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tender); err != nil {
		t.Fatalf("decode tender: %v", err)
	}
	if tender.Status != "draft" {
		t.Fatalf("status = %s", tender.Status)
	}

	path := fmt.Sprintf("/v1/tenders/%d", tender.ID)
	rec = doRequest(h, http.MethodPost, path+"/publish", `{}`, issuer)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodPost, path+"/submissions", `{"amount":95000,"details":{"company_name":"Acme","tax_number":"123","csd_number":"MAAA1","years_in_service":"5"}}`, bidder)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var sub struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}

	rec = doRequest(h, http.MethodPost, path+"/award", fmt.Sprintf(`{"submission_id":%d}`, sub.ID), issuer)
	if rec.Code != http.StatusOK {
		t.Fatalf("award: %d %s", rec.Code, rec.Body.String())
	}

	// the loser of a second award attempt gets a conflict
	rec = doRequest(h, http.MethodPost, path+"/award", fmt.Sprintf(`{"submission_id":%d}`, sub.ID), issuer)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second award: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBidderCannotCreateTender(t *testing.T) {
	h, _ := testRouter(t)
	bidder := registerAndLogin(t, h, "bidder@example.org", domain.RoleBidder)

	rec := doRequest(h, http.MethodPost, "/v1/tenders", `{"title":"T","description":"D"}`, bidder)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ResourceType string `json:"resource_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.ResourceType != "tender" {
		t.Fatalf("resource_type = %q", body.ResourceType)
	}
}

func TestAuditRequiresAuditorRole(t *testing.T) {
	h, _ := testRouter(t)
	bidder := registerAndLogin(t, h, "bidder@example.org", domain.RoleBidder)
	auditor := registerAndLogin(t, h, "auditor@example.org", domain.RoleAuditor)

	if rec := doRequest(h, http.MethodGet, "/v1/audit", "", bidder); rec.Code != http.StatusForbidden {
		t.Fatalf("bidder audit: %d", rec.Code)
	}

	rec := doRequest(h, http.MethodGet, "/v1/audit", "", auditor)
	if rec.Code != http.StatusOK {
		t.Fatalf("auditor audit: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Items []auditEntryResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	// two registrations and two logins
	if len(resp.Items) != 4 {
		t.Fatalf("got %d audit entries, want 4", len(resp.Items))
	}

	rec = doRequest(h, http.MethodGet, "/v1/audit/verify", "", auditor)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Valid   bool `json:"valid"`
		Checked int  `json:"checked"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.Valid || report.Checked != 4 {
		t.Fatalf("report = %+v", report)
	}
}

func TestCreateTenderRejectsUnknownFields(t *testing.T) {
	h, _ := testRouter(t)
	issuer := registerAndLogin(t, h, "issuer@example.org", domain.RoleIssuer)

	rec := doRequest(h, http.MethodPost, "/v1/tenders", `{"title":"T","description":"D","extra":1}`, issuer)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateTenderRejectsTrailingJSON(t *testing.T) {
	h, _ := testRouter(t)
	issuer := registerAndLogin(t, h, "issuer@example.org", domain.RoleIssuer)

	rec := doRequest(h, http.MethodPost, "/v1/tenders", `{"title":"T","description":"D"} {}`, issuer)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetTenderBadID(t *testing.T) {
	h, _ := testRouter(t)
	issuer := registerAndLogin(t, h, "issuer@example.org", domain.RoleIssuer)

	if rec := doRequest(h, http.MethodGet, "/v1/tenders/abc", "", issuer); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := doRequest(h, http.MethodGet, "/v1/tenders/999", "", issuer); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		want     int
		wantKind string
	}{
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{domain.ErrDuplicateSubmission, http.StatusConflict, "duplicate_submission"},
		{domain.ErrAlreadyAwarded, http.StatusConflict, "already_awarded"},
		{domain.ErrRevealMismatch, http.StatusConflict, "reveal_mismatch"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrBusy, http.StatusServiceUnavailable, "busy"},
		{domain.ErrLedgerWrite, http.StatusInternalServerError, "ledger_write"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handleDomainError(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: got %d, want %d", tc.err, rec.Code, tc.want)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: decode body: %v", tc.err, err)
		}
		if body["kind"] != tc.wantKind {
			t.Fatalf("%v: got kind %v, want %q", tc.err, body["kind"], tc.wantKind)
		}
	}

	rec := httptest.NewRecorder()
	handleDomainError(rec, domain.ErrBusy)
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("busy response missing Retry-After header")
	}
}

func TestWriteJSONEncodeErrorHandled(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": func() {}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}
