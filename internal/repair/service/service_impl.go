package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"github.com/smallbiznis/shopkeeper/internal/repair/domain"
	"github.com/smallbiznis/shopkeeper/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("repair.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tc, ok := tenantctx.From(ctx)
	if !ok || tc.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.CustomerName)
	email := strings.TrimSpace(req.CustomerEmail)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidCustomer
	}
	device := strings.TrimSpace(req.Device)
	if device == "" {
		return nil, domain.ErrInvalidDevice
	}
	issue := strings.TrimSpace(req.Issue)
	if issue == "" {
		return nil, domain.ErrInvalidIssue
	}

	// The route guard covers repairsEnabled; quote-on-request is a
	// sub-entitlement checked here because it only shapes this one field.
	if req.QuoteRequested && !tc.Features.Enabled(featuredomain.KeyQuoteOnRequest) {
		return nil, domain.ErrQuoteDisabled
	}

	now := time.Now().UTC()
	ticket := &domain.RepairTicket{
		ID:             s.genID.Generate(),
		TenantID:       tc.TenantID,
		CustomerName:   name,
		CustomerEmail:  email,
		Device:         device,
		Issue:          issue,
		QuoteRequested: req.QuoteRequested,
		Status:         domain.TicketStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, s.db, ticket); err != nil {
		return nil, err
	}

	s.log.Info("repair ticket created",
		zap.String("tenant_id", tc.TenantID.String()),
		zap.String("ticket_id", ticket.ID.String()),
	)
	resp := toResponse(ticket)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	tc, ok := tenantctx.From(ctx)
	if !ok || tc.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	tickets, err := s.repo.ListByTenant(ctx, s.db, tc.TenantID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(tickets))
	for _, ticket := range tickets {
		resp = append(resp, toResponse(&ticket))
	}
	return resp, nil
}

func toResponse(t *domain.RepairTicket) domain.Response {
	return domain.Response{
		ID:             t.ID.String(),
		CustomerName:   t.CustomerName,
		CustomerEmail:  t.CustomerEmail,
		Device:         t.Device,
		Issue:          t.Issue,
		QuoteRequested: t.QuoteRequested,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
	}
}
