package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
)

// Snapshot is the read-only view of one tenant handed to the resolution
// layer: the tenant record, the matched domain binding, and raw flags.
type Snapshot struct {
	Tenant Tenant
	Domain TenantDomain
	Flags  featuredomain.FlagSet
}

// Directory is the lookup contract the resolution core consumes. Lookups are
// safe for concurrent use; a missing domain or tenant is ErrNotFound, never a
// partial result.
type Directory interface {
	LookupByDomain(ctx context.Context, normalizedHost string) (*Snapshot, error)
	LookupFlags(ctx context.Context, tenantID snowflake.ID) (featuredomain.FlagSet, error)
}

// Repository covers directory reads plus the provisioning writes used by the
// owner panel.
type Repository interface {
	Directory

	CreateTenant(ctx context.Context, tenant *Tenant, flags *TenantFeatureFlags) error
	FindTenantByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
	UpdateTenantStatus(ctx context.Context, id snowflake.ID, status Status, updatedAt time.Time) error
	CreateDomain(ctx context.Context, binding *TenantDomain) error
	ListDomains(ctx context.Context, tenantID snowflake.ID) ([]TenantDomain, error)
	UpdateFlags(ctx context.Context, flags *TenantFeatureFlags) error
}

var (
	ErrNotFound       = errors.New("tenant_not_found")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidDomain  = errors.New("invalid_domain")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidID      = errors.New("invalid_id")
	ErrSlugTaken      = errors.New("slug_taken")
	ErrDomainTaken    = errors.New("domain_taken")
	ErrInvalidMaxSeat = errors.New("invalid_max_admin_users")
)

// ParseStatus validates a wire-level status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusActive, StatusSuspended, StatusArchived:
		return Status(raw), nil
	default:
		return "", ErrInvalidStatus
	}
}
