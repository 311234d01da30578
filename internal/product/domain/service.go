package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/shopkeeper/pkg/db/pagination"
)

// Service reads the storefront catalog for the tenant resolved on the
// request context.
type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	Name string
	pagination.Pagination
}

type ListResponse struct {
	Data     []Response          `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Response struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
