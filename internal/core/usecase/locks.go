package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

const defaultLockWait = 5 * time.Second

// TenderLocks is an arena of per-tender mutexes. Every mutating
// operation on a tender (publish, close, cancel, award, submission
// intake) runs under that tender's lock, so transitions linearize
// per tender while different tenders proceed in parallel. Acquisition
// waits at most maxWait and then fails with ErrBusy.
type TenderLocks struct {
	mu      sync.Mutex
	locks   map[int64]chan struct{}
	maxWait time.Duration
}

func NewTenderLocks(maxWait time.Duration) *TenderLocks {
	if maxWait <= 0 {
		maxWait = defaultLockWait
	}
	return &TenderLocks{locks: make(map[int64]chan struct{}), maxWait: maxWait}
}

// Acquire takes the lock for tenderID and returns its release func.
// It returns ErrBusy once maxWait elapses, or the context error if
// ctx is cancelled first.
func (l *TenderLocks) Acquire(ctx context.Context, tenderID int64) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[tenderID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[tenderID] = ch
	}
	l.mu.Unlock()

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, domain.ResourceFault(domain.ErrBusy, domain.ResourceTender, tenderID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
