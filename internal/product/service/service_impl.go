package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/product/domain"
	"github.com/smallbiznis/shopkeeper/pkg/db/pagination"
	"github.com/smallbiznis/shopkeeper/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("product.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	tc, ok := tenantctx.From(ctx)
	if !ok || tc.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	filter := req
	filter.Name = strings.TrimSpace(req.Name)

	items, err := s.repo.List(ctx, s.db, tc.TenantID, filter)
	if err != nil {
		return nil, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	resp := &domain.ListResponse{Data: make([]domain.Response, 0, len(items))}
	hasMore := len(items) > pageSize
	if hasMore {
		items = items[:pageSize]
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toResponse(&item))
	}
	if hasMore {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: items[len(items)-1].ID.String()})
		if err != nil {
			return nil, err
		}
		resp.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tc, ok := tenantctx.From(ctx)
	if !ok || tc.TenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tc.TenantID, productID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}
