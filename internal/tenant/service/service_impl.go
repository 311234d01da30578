package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/resolver"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache *resolver.Cache
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache *resolver.Cache
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Flags.MaxAdminUsers < 0 {
		return nil, domain.ErrInvalidMaxSeat
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         slug.Make(name),
		Status:       domain.StatusDraft,
		SupportEmail: strings.TrimSpace(req.SupportEmail),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	flags := &domain.TenantFeatureFlags{TenantID: tenant.ID, UpdatedAt: now}
	flags.ApplyFlagSet(req.Flags)

	if err := s.repo.CreateTenant(ctx, tenant, flags); err != nil {
		return nil, err
	}

	var domains []domain.TenantDomain
	if rawDomain := strings.TrimSpace(req.Domain); rawDomain != "" {
		host, ok := resolver.NormalizeHost(rawDomain)
		if !ok {
			return nil, domain.ErrInvalidDomain
		}
		binding := &domain.TenantDomain{
			ID:        s.genID.Generate(),
			TenantID:  tenant.ID,
			Domain:    host,
			IsPrimary: true,
			CreatedAt: now,
		}
		if err := s.repo.CreateDomain(ctx, binding); err != nil {
			return nil, err
		}
		domains = append(domains, *binding)
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
	)
	resp := toResponse(tenant, domains, flags.FlagSet())
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	domains, err := s.repo.ListDomains(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	flags, err := s.repo.LookupFlags(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(tenant, domains, flags)
	return &resp, nil
}

func (s *Service) BindDomain(ctx context.Context, tenantID string, req domain.BindDomainRequest) (*domain.Response, error) {
	id, err := parseID(tenantID)
	if err != nil {
		return nil, err
	}

	host, ok := resolver.NormalizeHost(req.Domain)
	if !ok {
		return nil, domain.ErrInvalidDomain
	}

	if _, err := s.repo.FindTenantByID(ctx, id); err != nil {
		return nil, err
	}

	binding := &domain.TenantDomain{
		ID:        s.genID.Generate(),
		TenantID:  id,
		Domain:    host,
		IsPrimary: req.IsPrimary,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateDomain(ctx, binding); err != nil {
		return nil, err
	}

	// The host may have been probed (and negatively resolved) before the
	// binding existed; any entry for this tenant is stale either way.
	s.cache.Invalidate(id)
	s.cache.InvalidateHost(host)

	return s.Get(ctx, tenantID)
}

func (s *Service) UpdateStatus(ctx context.Context, tenantID string, status string) (*domain.Response, error) {
	id, err := parseID(tenantID)
	if err != nil {
		return nil, err
	}
	parsed, err := domain.ParseStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTenantStatus(ctx, id, parsed, time.Now().UTC()); err != nil {
		return nil, err
	}
	s.cache.Invalidate(id)

	s.log.Info("tenant status updated",
		zap.String("tenant_id", id.String()),
		zap.String("status", string(parsed)),
	)
	return s.Get(ctx, tenantID)
}

func (s *Service) UpdateFlags(ctx context.Context, tenantID string, flags featuredomain.FlagSet) (*domain.Response, error) {
	id, err := parseID(tenantID)
	if err != nil {
		return nil, err
	}
	if flags.MaxAdminUsers < 0 {
		return nil, domain.ErrInvalidMaxSeat
	}

	if _, err := s.repo.FindTenantByID(ctx, id); err != nil {
		return nil, err
	}

	row := &domain.TenantFeatureFlags{TenantID: id, UpdatedAt: time.Now().UTC()}
	row.ApplyFlagSet(flags)
	if err := s.repo.UpdateFlags(ctx, row); err != nil {
		return nil, err
	}
	s.cache.Invalidate(id)

	return s.Get(ctx, tenantID)
}

func toResponse(tenant *domain.Tenant, domains []domain.TenantDomain, flags featuredomain.FlagSet) domain.Response {
	resp := domain.Response{
		ID:           tenant.ID.String(),
		Name:         tenant.Name,
		Slug:         tenant.Slug,
		Status:       tenant.Status,
		SupportEmail: tenant.SupportEmail,
		Flags:        flags,
		CreatedAt:    tenant.CreatedAt,
	}
	for _, binding := range domains {
		resp.Domains = append(resp.Domains, domain.DomainResponse{
			Domain:    binding.Domain,
			IsPrimary: binding.IsPrimary,
			Verified:  binding.Verified,
		})
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
