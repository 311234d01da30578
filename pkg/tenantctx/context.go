// Package tenantctx carries the per-request tenant decision to downstream
// handlers. Handlers read only effective feature values through the view;
// raw flags are never exposed past the resolution middleware.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
)

type contextKey struct{}

// Context is the resolved-tenant view attached after the access decision.
type Context struct {
	TenantID snowflake.ID
	Status   tenantdomain.Status
	Features featuredomain.View
}

// With stores the tenant context on the request context.
func With(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// From returns the tenant context, if the resolution middleware ran.
func From(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}
