package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to the boundary layer. Authorization and
// validation failures are detected before any mutation; ErrLedgerWrite
// always means the paired domain mutation was rolled back.
var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrAlreadyAwarded      = errors.New("already awarded")
	ErrRevealMismatch      = errors.New("reveal mismatch")
	ErrLedgerWrite         = errors.New("ledger write failed")
	ErrBusy                = errors.New("busy")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
)

// ResourceError attaches the resource a failure refers to, so the
// boundary can render kind + resource id without parsing messages.
type ResourceError struct {
	Err          error
	ResourceType string
	ResourceID   int64
}

func (e *ResourceError) Error() string {
	if e.ResourceID == 0 {
		return fmt.Sprintf("%s: %s", e.ResourceType, e.Err)
	}
	return fmt.Sprintf("%s %d: %s", e.ResourceType, e.ResourceID, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func ResourceFault(err error, resourceType string, resourceID int64) error {
	return &ResourceError{Err: err, ResourceType: resourceType, ResourceID: resourceID}
}
