package usecase

import (
	"context"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
)

// TenderService owns the tender lifecycle: it validates transitions,
// applies them under the tender's lock, and emits exactly one ledger
// entry per successful mutation. Awarding is delegated to the
// AwardService; this service never sets awarded itself.
type TenderService struct {
	tenders ports.TenderStore
	locks   *TenderLocks
	now     func() time.Time
}

func NewTenderService(tenders ports.TenderStore, locks *TenderLocks) *TenderService {
	return &TenderService{tenders: tenders, locks: locks, now: func() time.Time { return time.Now().UTC() }}
}

type TenderInput struct {
	Title           string
	Description     string
	EstimatedBudget *int64
}

type TenderUpdate struct {
	Title           *string
	Description     *string
	EstimatedBudget *int64
}

func (s *TenderService) Create(ctx context.Context, actor domain.Actor, in TenderInput) (domain.Tender, error) {
	if !actor.CanCreateTender() {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, 0)
	}

	t := domain.Tender{
		OwnerID:         actor.ID,
		Title:           in.Title,
		Description:     in.Description,
		EstimatedBudget: in.EstimatedBudget,
		Status:          domain.TenderDraft,
	}
	if err := t.Validate(); err != nil {
		return domain.Tender{}, err
	}

	return s.tenders.Create(ctx, t, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderCreate,
		ResourceType: domain.ResourceTender,
		Payload:      domain.CanonicalPayload(map[string]any{"title": t.Title}),
	})
}

func (s *TenderService) Update(ctx context.Context, actor domain.Actor, tenderID int64, in TenderUpdate) (domain.Tender, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	defer release()

	t, err := s.loadForMutation(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if !actor.CanManageTender(t) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}
	if t.Status != domain.TenderDraft && t.Status != domain.TenderPublished {
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}

	changed := map[string]any{}
	if in.Title != nil {
		t.Title = *in.Title
		changed["title"] = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
		changed["description"] = *in.Description
	}
	if in.EstimatedBudget != nil {
		t.EstimatedBudget = in.EstimatedBudget
		changed["estimated_budget"] = *in.EstimatedBudget
	}
	if len(changed) == 0 {
		return t, nil
	}
	if err := t.Validate(); err != nil {
		return domain.Tender{}, err
	}

	return s.tenders.Save(ctx, t, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderUpdate,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload:      domain.CanonicalPayload(changed),
	})
}

func (s *TenderService) Publish(ctx context.Context, actor domain.Actor, tenderID int64, closeAt *time.Time) (domain.Tender, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	defer release()

	t, err := s.loadForMutation(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if !actor.CanManageTender(t) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}
	if !domain.CanTransition(t.Status, domain.TenderPublished) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}
	if closeAt != nil && closeAt.Before(s.now()) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceTender, tenderID)
	}

	now := s.now()
	t.Status = domain.TenderPublished
	t.PublishAt = &now
	if closeAt != nil {
		utc := closeAt.UTC()
		t.CloseAt = &utc
	}

	var closeAtPayload any
	if t.CloseAt != nil {
		closeAtPayload = t.CloseAt.Format(time.RFC3339Nano)
	}
	return s.tenders.Save(ctx, t, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderPublish,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload:      domain.CanonicalPayload(map[string]any{"close_at": closeAtPayload}),
	})
}

func (s *TenderService) Close(ctx context.Context, actor domain.Actor, tenderID int64) (domain.Tender, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	defer release()

	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if !actor.CanManageTender(t) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}
	// Already lazily closed: persist the deadline transition instead
	// of rejecting the caller's close.
	if t.Status == domain.TenderPublished && t.EffectiveStatus(s.now()) == domain.TenderClosed {
		return s.persistLazyClose(ctx, t)
	}
	if !domain.CanTransition(t.Status, domain.TenderClosed) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}

	now := s.now()
	t.Status = domain.TenderClosed
	if t.CloseAt == nil {
		t.CloseAt = &now
	}
	return s.tenders.Save(ctx, t, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderClose,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload:      domain.CanonicalPayload(nil),
	})
}

func (s *TenderService) Cancel(ctx context.Context, actor domain.Actor, tenderID int64) (domain.Tender, error) {
	release, err := s.locks.Acquire(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	defer release()

	t, err := s.loadForMutation(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if !actor.CanManageTender(t) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrForbidden, domain.ResourceTender, tenderID)
	}
	if !domain.CanTransition(t.Status, domain.TenderCancelled) {
		return domain.Tender{}, domain.ResourceFault(domain.ErrInvalidTransition, domain.ResourceTender, tenderID)
	}

	t.Status = domain.TenderCancelled
	return s.tenders.Save(ctx, t, domain.LedgerDraft{
		ActorID:      &actor.ID,
		Action:       domain.ActionTenderCancel,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload:      domain.CanonicalPayload(nil),
	})
}

// Get reports the tender with its effective (lazily closed) status.
func (s *TenderService) Get(ctx context.Context, tenderID int64) (domain.Tender, error) {
	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	t.Status = t.EffectiveStatus(s.now())
	return t, nil
}

func (s *TenderService) List(ctx context.Context) ([]domain.Tender, error) {
	tenders, err := s.tenders.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range tenders {
		tenders[i].Status = tenders[i].EffectiveStatus(now)
	}
	return tenders, nil
}

// loadForMutation loads the tender and, when its close_at has elapsed
// while the stored row still says published, persists the lazy close
// first. Callers must hold the tender lock.
func (s *TenderService) loadForMutation(ctx context.Context, tenderID int64) (domain.Tender, error) {
	t, err := s.tenders.Get(ctx, tenderID)
	if err != nil {
		return domain.Tender{}, err
	}
	if t.Status == domain.TenderPublished && t.EffectiveStatus(s.now()) == domain.TenderClosed {
		return s.persistLazyClose(ctx, t)
	}
	return t, nil
}

// persistLazyClose records the deadline-driven close as a system
// action (no actor).
func (s *TenderService) persistLazyClose(ctx context.Context, t domain.Tender) (domain.Tender, error) {
	t.Status = domain.TenderClosed
	return s.tenders.Save(ctx, t, domain.LedgerDraft{
		Action:       domain.ActionTenderClose,
		ResourceType: domain.ResourceTender,
		ResourceID:   formatID(t.ID),
		Payload:      domain.CanonicalPayload(map[string]any{"reason": "close_at elapsed"}),
	})
}
