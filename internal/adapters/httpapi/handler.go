package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/usecase"
)

type ctxKey string

const (
	timeFormat            = "2006-01-02T15:04:05.999999999Z07:00"
	actorCtxKey    ctxKey = "actor"
	maxJSONBodySize       = 1 << 20
	maxUploadSize         = 32 << 20
)

type Handler struct {
	auth        *usecase.AuthService
	tenders     *usecase.TenderService
	submissions *usecase.SubmissionService
	awards      *usecase.AwardService
	ledger      *usecase.LedgerService
	documents   *usecase.DocumentService
}

func NewHandler(
	auth *usecase.AuthService,
	tenders *usecase.TenderService,
	submissions *usecase.SubmissionService,
	awards *usecase.AwardService,
	ledger *usecase.LedgerService,
	documents *usecase.DocumentService,
) *Handler {
	return &Handler{
		auth:        auth,
		tenders:     tenders,
		submissions: submissions,
		awards:      awards,
		ledger:      ledger,
		documents:   documents,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)
	r.Post("/v1/auth/register", h.register)
	r.Post("/v1/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAuth)
		pr.Get("/v1/auth/me", h.me)

		pr.Post("/v1/tenders", h.createTender)
		pr.Get("/v1/tenders", h.listTenders)
		pr.Get("/v1/tenders/{id}", h.getTender)
		pr.Patch("/v1/tenders/{id}", h.updateTender)
		pr.Post("/v1/tenders/{id}/publish", h.publishTender)
		pr.Post("/v1/tenders/{id}/close", h.closeTender)
		pr.Post("/v1/tenders/{id}/cancel", h.cancelTender)
		pr.Post("/v1/tenders/{id}/award", h.awardTender)

		pr.Post("/v1/tenders/{id}/submissions", h.createSubmission)
		pr.Get("/v1/tenders/{id}/submissions", h.listTenderSubmissions)
		pr.Get("/v1/submissions/mine", h.listMySubmissions)
		pr.Get("/v1/submissions/{id}", h.getSubmission)

		pr.Post("/v1/documents", h.uploadDocument)
		pr.Get("/v1/documents", h.listDocuments)
		pr.Get("/v1/documents/{id}/download", h.downloadDocument)
		pr.Delete("/v1/documents/{id}", h.deleteDocument)

		pr.Get("/v1/audit", h.listAudit)
		pr.Get("/v1/audit/verify", h.verifyAudit)
	})

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type tenderRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedBudget *int64 `json:"estimated_budget"`
}

type tenderUpdateRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	EstimatedBudget *int64  `json:"estimated_budget"`
}

type publishRequest struct {
	CloseAt *string `json:"close_at"`
}

type tenderResponse struct {
	ID              int64  `json:"id"`
	OwnerID         int64  `json:"owner_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedBudget *int64 `json:"estimated_budget,omitempty"`
	Status          string `json:"status"`
	PublishAt       string `json:"publish_at,omitempty"`
	CloseAt         string `json:"close_at,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type submissionRequest struct {
	Amount      *int64          `json:"amount"`
	Notes       string          `json:"notes"`
	Details     json.RawMessage `json:"details"`
	IsAnonymous bool            `json:"is_anonymous"`
	Payload     string          `json:"payload"`
	Nonce       string          `json:"nonce"`
}

// submissionResponse never carries the sealed payload: once stored it
// is only revealed to the award coordinator.
type submissionResponse struct {
	ID          int64           `json:"id"`
	TenderID    int64           `json:"tender_id"`
	BidderID    *int64          `json:"bidder_id,omitempty"`
	IsAnonymous bool            `json:"is_anonymous"`
	Commitment  string          `json:"commitment,omitempty"`
	NonceHint   string          `json:"nonce_hint,omitempty"`
	Amount      *int64          `json:"amount,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
	Winning     bool            `json:"winning"`
	CreatedAt   string          `json:"created_at"`
}

type awardRequest struct {
	SubmissionID int64  `json:"submission_id"`
	Payload      string `json:"payload"`
	Nonce        string `json:"nonce"`
}

type documentResponse struct {
	ID               int64  `json:"id"`
	TenderID         *int64 `json:"tender_id,omitempty"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	Checksum         string `json:"checksum"`
	Visibility       string `json:"visibility"`
	CreatedAt        string `json:"created_at"`
}

type auditEntryResponse struct {
	ID                 int64           `json:"id"`
	ActorID            *int64          `json:"actor_id"`
	Action             string          `json:"action"`
	ResourceType       string          `json:"resource_type"`
	ResourceID         string          `json:"resource_id"`
	Payload            json.RawMessage `json:"payload"`
	CreatedAt          string          `json:"created_at"`
	ImmutableSignature string          `json:"immutable_signature"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.FullName, req.Password, domain.Role(req.Role))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   actor.ID,
		"role": string(actor.Role),
	})
}

func (h *Handler) createTender(w http.ResponseWriter, r *http.Request) {
	var req tenderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tender, err := h.tenders.Create(r.Context(), actorFromContext(r.Context()), usecase.TenderInput{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedBudget: req.EstimatedBudget,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTenderResponse(tender))
}

func (h *Handler) listTenders(w http.ResponseWriter, r *http.Request) {
	tenders, err := h.tenders.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	result := make([]tenderResponse, 0, len(tenders))
	for _, t := range tenders {
		result = append(result, toTenderResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) getTender(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tender, err := h.tenders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenderResponse(tender))
}

func (h *Handler) updateTender(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req tenderUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tender, err := h.tenders.Update(r.Context(), actorFromContext(r.Context()), id, usecase.TenderUpdate{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedBudget: req.EstimatedBudget,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenderResponse(tender))
}

func (h *Handler) publishTender(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req publishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var closeAt *time.Time
	if req.CloseAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.CloseAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "close_at must be RFC 3339")
			return
		}
		utc := parsed.UTC()
		closeAt = &utc
	}

	tender, err := h.tenders.Publish(r.Context(), actorFromContext(r.Context()), id, closeAt)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenderResponse(tender))
}

func (h *Handler) closeTender(w http.ResponseWriter, r *http.Request) {
	h.transitionTender(w, r, h.tenders.Close)
}

func (h *Handler) cancelTender(w http.ResponseWriter, r *http.Request) {
	h.transitionTender(w, r, h.tenders.Cancel)
}

func (h *Handler) transitionTender(w http.ResponseWriter, r *http.Request, op func(context.Context, domain.Actor, int64) (domain.Tender, error)) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tender, err := op(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenderResponse(tender))
}

func (h *Handler) awardTender(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req awardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tender, err := h.awards.Award(r.Context(), actorFromContext(r.Context()), id, usecase.AwardInput{
		SubmissionID: req.SubmissionID,
		Payload:      req.Payload,
		Nonce:        req.Nonce,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenderResponse(tender))
}

func (h *Handler) createSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req submissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sub, err := h.submissions.Create(r.Context(), actorFromContext(r.Context()), id, usecase.SubmissionInput{
		Amount:      req.Amount,
		Notes:       req.Notes,
		Details:     req.Details,
		IsAnonymous: req.IsAnonymous,
		Payload:     req.Payload,
		Nonce:       req.Nonce,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubmissionResponse(sub))
}

func (h *Handler) listTenderSubmissions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	subs, err := h.submissions.ListByTender(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toSubmissionResponses(subs)})
}

func (h *Handler) listMySubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.ListMine(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toSubmissionResponses(subs)})
}

func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionResponse(sub))
}

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	var tenderID *int64
	if raw := r.FormValue("tender_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "tender_id must be integer")
			return
		}
		tenderID = &parsed
	}

	doc, err := h.documents.Upload(
		r.Context(),
		actorFromContext(r.Context()),
		tenderID,
		header.Filename,
		header.Header.Get("Content-Type"),
		domain.Visibility(r.FormValue("visibility")),
		file,
	)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListMine(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	result := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	doc, reader, err := h.documents.Open(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	defer reader.Close()

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.OriginalFilename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		log.Printf("stream document %d: %v", id, err)
	}
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.documents.Delete(r.Context(), actorFromContext(r.Context()), id); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be integer")
			return
		}
		limit = parsed
	}
	afterID := int64(0)
	if raw := r.URL.Query().Get("after_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "after_id must be integer")
			return
		}
		afterID = parsed
	}

	entries, err := h.ledger.List(r.Context(), actorFromContext(r.Context()), domain.AuditFilter{
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
		Action:       r.URL.Query().Get("action"),
		AfterID:      afterID,
		Limit:        limit,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	result := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toAuditEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) verifyAudit(w http.ResponseWriter, r *http.Request) {
	from, to := int64(0), int64(0)
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = strconv.ParseInt(raw, 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, "from must be integer")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = strconv.ParseInt(raw, 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, "to must be integer")
			return
		}
	}

	report, err := h.ledger.VerifyChain(r.Context(), actorFromContext(r.Context()), from, to)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	body := map[string]any{"valid": report.Valid, "checked": report.Checked}
	if !report.Valid {
		body["broken_id"] = report.BrokenID
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			token = strings.TrimSpace(auth[7:])
		}

		actor, _, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), actorCtxKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: string(u.Role)}
}

func toTenderResponse(t domain.Tender) tenderResponse {
	resp := tenderResponse{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Title:           t.Title,
		Description:     t.Description,
		EstimatedBudget: t.EstimatedBudget,
		Status:          string(t.Status),
		CreatedAt:       t.CreatedAt.UTC().Format(timeFormat),
	}
	if t.PublishAt != nil {
		resp.PublishAt = t.PublishAt.UTC().Format(timeFormat)
	}
	if t.CloseAt != nil {
		resp.CloseAt = t.CloseAt.UTC().Format(timeFormat)
	}
	return resp
}

func toSubmissionResponse(s domain.Submission) submissionResponse {
	return submissionResponse{
		ID:          s.ID,
		TenderID:    s.TenderID,
		BidderID:    s.BidderID,
		IsAnonymous: s.IsAnonymous,
		Commitment:  s.Commitment,
		NonceHint:   s.NonceHint,
		Amount:      s.Amount,
		Notes:       s.Notes,
		Details:     s.Details,
		Winning:     s.Winning,
		CreatedAt:   s.CreatedAt.UTC().Format(timeFormat),
	}
}

func toSubmissionResponses(subs []domain.Submission) []submissionResponse {
	result := make([]submissionResponse, 0, len(subs))
	for _, s := range subs {
		result = append(result, toSubmissionResponse(s))
	}
	return result
}

func toDocumentResponse(d domain.Document) documentResponse {
	return documentResponse{
		ID:               d.ID,
		TenderID:         d.TenderID,
		OriginalFilename: d.OriginalFilename,
		MimeType:         d.MimeType,
		Checksum:         d.Checksum,
		Visibility:       string(d.Visibility),
		CreatedAt:        d.CreatedAt.UTC().Format(timeFormat),
	}
}

func toAuditEntryResponse(e domain.AuditLogEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:                 e.ID,
		ActorID:            e.ActorID,
		Action:             e.Action,
		ResourceType:       e.ResourceType,
		ResourceID:         e.ResourceID,
		Payload:            e.Payload,
		CreatedAt:          domain.FormatSignatureTime(e.CreatedAt),
		ImmutableSignature: e.ImmutableSignature,
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := ensureEOF(decoder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("encode json response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// handleDomainError maps the core error taxonomy onto status codes.
// The resource type and id travel in the body when the failure names
// one, so clients never parse messages.
func handleDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	kind := "internal"

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, message, kind = http.StatusBadRequest, err.Error(), "invalid_input"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message, kind = http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		status, message, kind = http.StatusForbidden, err.Error(), "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		status, message, kind = http.StatusNotFound, err.Error(), "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message, kind = http.StatusConflict, err.Error(), "invalid_transition"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		status, message, kind = http.StatusConflict, err.Error(), "duplicate_submission"
	case errors.Is(err, domain.ErrAlreadyAwarded):
		status, message, kind = http.StatusConflict, err.Error(), "already_awarded"
	case errors.Is(err, domain.ErrRevealMismatch):
		status, message, kind = http.StatusConflict, err.Error(), "reveal_mismatch"
	case errors.Is(err, domain.ErrBusy):
		status, message, kind = http.StatusServiceUnavailable, err.Error(), "busy"
		w.Header().Set("Retry-After", "1")
	case errors.Is(err, domain.ErrLedgerWrite):
		status, message, kind = http.StatusInternalServerError, "ledger write failed", "ledger_write"
	}

	body := map[string]any{"error": message, "kind": kind}
	var resErr *domain.ResourceError
	if errors.As(err, &resErr) {
		body["resource_type"] = resErr.ResourceType
		if resErr.ResourceID != 0 {
			body["resource_id"] = resErr.ResourceID
		}
	}
	writeJSON(w, status, body)
}

func actorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorCtxKey).(domain.Actor)
	return actor
}
