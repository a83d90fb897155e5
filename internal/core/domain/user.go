package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleIssuer  Role = "issuer"
	RoleBidder  Role = "bidder"
	RoleAuditor Role = "auditor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleIssuer, RoleBidder, RoleAuditor:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}

// Actor is the resolved (actor id, role) pair handed to every core
// operation by the identity layer. The core never sees credentials.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsIssuer() bool  { return a.Role == RoleIssuer }
func (a Actor) IsBidder() bool  { return a.Role == RoleBidder }
func (a Actor) IsAuditor() bool { return a.Role == RoleAuditor }

// CanCreateTender gates tender creation to issuers and admins.
func (a Actor) CanCreateTender() bool {
	return a.Role == RoleIssuer || a.Role == RoleAdmin
}

// CanManageTender reports whether the actor may mutate the given
// tender: its owner or an admin.
func (a Actor) CanManageTender(t Tender) bool {
	return a.ID == t.OwnerID || a.Role == RoleAdmin
}

// CanViewAudit gates the audit trail to admins and auditors.
func (a Actor) CanViewAudit() bool {
	return a.Role == RoleAdmin || a.Role == RoleAuditor
}
