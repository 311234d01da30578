package domain

import (
	"context"
	"errors"
	"time"
)

// Service handles repair ticket intake for the tenant on the request
// context.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

type CreateRequest struct {
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	Device         string `json:"device"`
	Issue          string `json:"issue"`
	QuoteRequested bool   `json:"quote_requested"`
}

type Response struct {
	ID             string       `json:"id"`
	CustomerName   string       `json:"customer_name"`
	CustomerEmail  string       `json:"customer_email"`
	Device         string       `json:"device"`
	Issue          string       `json:"issue"`
	QuoteRequested bool         `json:"quote_requested"`
	Status         TicketStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidDevice   = errors.New("invalid_device")
	ErrInvalidIssue    = errors.New("invalid_issue")
	ErrQuoteDisabled   = errors.New("quote_on_request_disabled")
)
