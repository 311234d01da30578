package server

import (
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"github.com/smallbiznis/shopkeeper/internal/principal"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/resolver"
	"github.com/smallbiznis/shopkeeper/pkg/log/ctxlogger"
	"github.com/smallbiznis/shopkeeper/pkg/tenantctx"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"

	// Set by the upstream auth proxy; this subsystem never authenticates.
	headerAuthRole   = "X-Auth-Role"
	headerAuthTenant = "X-Auth-Tenant-ID"
)

// RequestID guarantees a correlation ID on the request context and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := strings.TrimSpace(c.GetHeader(headerRequestID)); incoming != "" {
			ctx = ctxlogger.ContextWithCorrelationID(ctx, incoming)
		}
		ctx, cid := ctxlogger.EnsureCorrelationID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, cid)
		c.Next()
	}
}

// PrincipalExtractor parses the trusted auth headers into a principal. A
// missing role header means an anonymous request; guards decide what that
// implies.
func PrincipalExtractor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.TrimSpace(c.GetHeader(headerAuthRole))
		if role == "" {
			c.Next()
			return
		}

		p := principal.Principal{Role: principal.Role(strings.ToUpper(role))}
		if raw := strings.TrimSpace(c.GetHeader(headerAuthTenant)); raw != "" {
			// An unparseable tenant ID is still a tenant association;
			// dropping it here would hide corrupt principal data.
			p.TenantClaimed = true
			if id, err := snowflake.ParseString(raw); err == nil {
				p.TenantID = &id
			}
		}

		c.Request = c.Request.WithContext(principal.With(c.Request.Context(), p))
		c.Next()
	}
}

// TenantContext is the access decision pipeline: resolve the host, check
// tenant status, attach the effective feature view. Every storefront route
// runs behind it.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := s.resolver.Resolve(c.Request.Context(), c.Request.Host)
		if err != nil {
			switch {
			case errors.Is(err, tenantdomain.ErrNotFound):
				AbortWithError(c, ErrTenantNotFound)
			case errors.Is(err, resolver.ErrUnavailable):
				// Fail closed: an unreachable directory must never
				// grant access on behalf of an unknown tenant.
				AbortWithError(c, err)
			default:
				AbortWithError(c, err)
			}
			return
		}

		switch snapshot.Tenant.Status {
		case tenantdomain.StatusActive:
		case tenantdomain.StatusSuspended:
			AbortWithError(c, &TenantSuspendedError{SupportEmail: snapshot.Tenant.SupportEmail})
			return
		default:
			// DRAFT and ARCHIVED are indistinguishable from absent.
			AbortWithError(c, ErrTenantNotFound)
			return
		}

		tc := tenantctx.Context{
			TenantID: snapshot.Tenant.ID,
			Status:   snapshot.Tenant.Status,
			Features: featuredomain.NewView(snapshot.Flags),
		}
		c.Request = c.Request.WithContext(tenantctx.With(c.Request.Context(), tc))
		c.Next()
	}
}

// RequireFeature gates a route on one feature key. Parent gating is applied
// by the view, so declaring the most specific child covers its whole chain.
func (s *Server) RequireFeature(key featuredomain.Key) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc, ok := tenantctx.From(c.Request.Context())
		if !ok {
			s.log.Error("feature gate reached without tenant context",
				zap.String("path", c.FullPath()),
			)
			AbortWithError(c, ErrTenantNotFound)
			return
		}

		if !tc.Features.Enabled(key) {
			AbortWithError(c, &FeatureDisabledError{Feature: key})
			return
		}
		c.Next()
	}
}

// OwnerOnly guards platform-operator routes. It is deliberately independent
// of tenant resolution so owner tooling keeps working when that path is
// degraded. An OWNER principal carrying any tenant association indicates
// corrupt principal data and is rejected, never repaired.
func OwnerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal.From(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrAuthenticationRequired)
			return
		}
		if p.Role != principal.RoleOwner {
			AbortWithError(c, ErrOwnerAccessRequired)
			return
		}
		if p.TenantID != nil || p.TenantClaimed {
			AbortWithError(c, ErrPlatformAccessViolation)
			return
		}
		c.Next()
	}
}
