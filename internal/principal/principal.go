// Package principal models the authenticated caller as attached by the
// upstream auth layer. This subsystem only reads it; it never authenticates.
package principal

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	// RoleOwner is the platform operator. An OWNER principal is never
	// associated with a tenant.
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// Principal is the authenticated caller. TenantID is nil for platform-level
// principals. TenantClaimed records that the auth layer sent any tenant
// association at all, even one that failed to parse; guards must treat such a
// principal as tenant-scoped rather than repair it.
type Principal struct {
	Role          Role
	TenantID      *snowflake.ID
	TenantClaimed bool
}

type contextKey struct{}

func With(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func From(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
