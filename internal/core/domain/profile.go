package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileKind is the role of a platform participant.
type ProfileKind string

const (
	ProfileKindUser     ProfileKind = "USER"
	ProfileKindAgent    ProfileKind = "AGENT"
	ProfileKindMerchant ProfileKind = "MERCHANT"
)

// ProfileStatus represents the state of a participant account.
type ProfileStatus string

const (
	ProfileStatusActive    ProfileStatus = "ACTIVE"
	ProfileStatusSuspended ProfileStatus = "SUSPENDED"
	ProfileStatusClosed    ProfileStatus = "CLOSED"
)

// ValidProfileKind reports whether k is a known participant kind.
func ValidProfileKind(k ProfileKind) bool {
	switch k {
	case ProfileKindUser, ProfileKindAgent, ProfileKindMerchant:
		return true
	}
	return false
}

// ValidProfileStatus reports whether s is a known participant status.
func ValidProfileStatus(s ProfileStatus) bool {
	switch s {
	case ProfileStatusActive, ProfileStatusSuspended, ProfileStatusClosed:
		return true
	}
	return false
}

// Profile is the participant registry record the core validates
// ownership and existence against. Authentication itself lives in the
// external identity provider.
type Profile struct {
	ID          uuid.UUID     `json:"id"`
	Kind        ProfileKind   `json:"kind"`
	DisplayName string        `json:"display_name"`
	Status      ProfileStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsActive returns true if the participant may transact.
func (p *Profile) IsActive() bool {
	return p.Status == ProfileStatusActive
}

// Role is the authenticated caller's claim. It covers the three
// profile kinds plus ADMIN, which has no profile of its own.
type Role string

const (
	RoleUser     Role = "USER"
	RoleAgent    Role = "AGENT"
	RoleMerchant Role = "MERCHANT"
	RoleAdmin    Role = "ADMIN"
)

// ValidRole reports whether r is a known role claim.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAgent, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity an operation runs as.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may read resources owned by
// ownerID: admins see everything, everyone else only their own.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == ownerID
}

// AgentCredit is an agent's e-float line per currency. It is granted
// from the system reserve and settled back against it; it may never go
// negative.
type AgentCredit struct {
	AgentID   uuid.UUID       `json:"agent_id"`
	Currency  Currency        `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanSpend reports whether the credit line covers amount.
func (a *AgentCredit) CanSpend(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
