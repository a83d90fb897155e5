package domain

import "time"

type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityInternal   Visibility = "internal"
	VisibilityRestricted Visibility = "restricted"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityRestricted:
		return true
	}
	return false
}

// Document metadata. Blob bytes live in the external document store;
// only visibility-based access filtering is owned here.
type Document struct {
	ID               int64
	OwnerID          *int64
	TenderID         *int64
	OriginalFilename string
	StoredPath       string
	MimeType         string
	Checksum         string
	Visibility       Visibility
	CreatedAt        time.Time
}

// CanAccess applies the visibility gate: public documents are open to
// any authenticated actor, internal and restricted ones to the
// uploader, issuers, and admins.
func (d Document) CanAccess(actor Actor) bool {
	if d.Visibility == VisibilityPublic {
		return true
	}
	if d.OwnerID != nil && *d.OwnerID == actor.ID {
		return true
	}
	return actor.Role == RoleAdmin || actor.Role == RoleIssuer
}
