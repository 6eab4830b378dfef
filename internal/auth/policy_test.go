package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dropa-gg/dropa/internal/domain"
)

func TestDefaultPolicy(t *testing.T) {
	pol := DefaultPolicy()
	admin := &Principal{UserID: uuid.New(), Role: domain.RoleAdmin}
	player := &Principal{UserID: uuid.New(), Role: domain.RoleUser}

	for _, c := range []Capability{CapReconcileStats, CapReadAudit, CapManageCatalog, CapManageUsers} {
		assert.True(t, pol.Can(admin, c), c)
		assert.False(t, pol.Can(player, c), c)
	}
	assert.False(t, pol.Can(nil, CapReadAudit))
}

func TestRequire(t *testing.T) {
	pol := NewPolicy(map[domain.Role][]Capability{domain.RoleUser: {CapReadAudit}})
	player := &Principal{Role: domain.RoleUser}

	assert.NoError(t, pol.Require(player, CapReadAudit))
	assert.ErrorIs(t, pol.Require(player, CapReconcileStats), domain.ErrForbidden)
	assert.ErrorIs(t, pol.Require(nil, CapReadAudit), domain.ErrUnauthenticated)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	u := &domain.User{ID: uuid.New(), Username: "ana", Role: domain.RoleAdmin}
	ctx = WithPrincipal(ctx, PrincipalFor(u))

	p := PrincipalFromContext(ctx)
	if assert.NotNil(t, p) {
		assert.Equal(t, u.ID, p.UserID)
		assert.Equal(t, domain.RoleAdmin, p.Role)
	}
}
