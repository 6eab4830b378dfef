// Package auth resolves what an identified caller may do.
package auth

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Capability names an admin operation.
type Capability string

const (
	CapReconcileStats Capability = "stats:reconcile"
	CapReadAudit      Capability = "audit:read"
	CapManageCatalog  Capability = "catalog:manage"
	CapManageUsers    Capability = "users:manage"
)

// Principal is the caller forwarded by the gateway.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     domain.Role
}

// Policy maps roles to capabilities.
type Policy struct {
	grants map[domain.Role][]Capability
}

// DefaultPolicy gives admins every capability and users none.
func DefaultPolicy() *Policy {
	return NewPolicy(map[domain.Role][]Capability{
		domain.RoleAdmin: {CapReconcileStats, CapReadAudit, CapManageCatalog, CapManageUsers},
	})
}

// NewPolicy creates a policy from explicit grants.
func NewPolicy(grants map[domain.Role][]Capability) *Policy {
	return &Policy{grants: grants}
}

// Can reports whether p holds capability c. A nil principal holds nothing.
func (pol *Policy) Can(p *Principal, c Capability) bool {
	if p == nil {
		return false
	}
	return slices.Contains(pol.grants[p.Role], c)
}

// Require returns domain.ErrUnauthenticated without a principal and
// domain.ErrForbidden when the capability is missing.
func (pol *Policy) Require(p *Principal, c Capability) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if !pol.Can(p, c) {
		return domain.ErrForbidden
	}
	return nil
}

type principalKey struct{}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller, or nil when the request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// PrincipalFor builds the principal of a loaded user.
func PrincipalFor(u *domain.User) *Principal {
	return &Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}
