package domain

import (
	"context"
	"time"

	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
)

// Service is the owner-panel write surface over the tenant directory. Every
// mutation invalidates the resolver cache for the affected tenant.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	BindDomain(ctx context.Context, tenantID string, req BindDomainRequest) (*Response, error)
	UpdateStatus(ctx context.Context, tenantID string, status string) (*Response, error)
	UpdateFlags(ctx context.Context, tenantID string, flags featuredomain.FlagSet) (*Response, error)
}

type CreateRequest struct {
	Name         string                `json:"name"`
	SupportEmail string                `json:"support_email"`
	Domain       string                `json:"domain"`
	Flags        featuredomain.FlagSet `json:"flags"`
}

type BindDomainRequest struct {
	Domain    string `json:"domain"`
	IsPrimary bool   `json:"is_primary"`
}

type Response struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Status       Status                `json:"status"`
	SupportEmail string                `json:"support_email,omitempty"`
	Domains      []DomainResponse      `json:"domains,omitempty"`
	Flags        featuredomain.FlagSet `json:"flags"`
	CreatedAt    time.Time             `json:"created_at"`
}

type DomainResponse struct {
	Domain    string `json:"domain"`
	IsPrimary bool   `json:"is_primary"`
	Verified  bool   `json:"verified"`
}
