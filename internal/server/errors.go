package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	productdomain "github.com/smallbiznis/shopkeeper/internal/product/domain"
	repairdomain "github.com/smallbiznis/shopkeeper/internal/repair/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/resolver"
	"gorm.io/gorm"
)

var (
	ErrTenantNotFound          = errors.New("tenant_not_found")
	ErrServiceUnavailable      = errors.New("service_unavailable")
	ErrAuthenticationRequired  = errors.New("authentication_required")
	ErrOwnerAccessRequired     = errors.New("owner_access_required")
	ErrPlatformAccessViolation = errors.New("platform_access_required_violation")
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrNotFound                = errors.New("not_found")
	ErrConflict                = errors.New("conflict")
)

// TenantSuspendedError carries the support contact so the edge can render an
// explanatory page instead of a generic 404.
type TenantSuspendedError struct {
	SupportEmail string
}

func (e *TenantSuspendedError) Error() string { return "tenant_suspended" }

// FeatureDisabledError carries the specific feature key so callers can render
// an upsell or explanation rather than a generic error.
type FeatureDisabledError struct {
	Feature featuredomain.Key
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("feature_disabled: %s", e.Feature)
}

type errorPayload struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	Feature      string `json:"feature,omitempty"`
	SupportEmail string `json:"support_email,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var suspended *TenantSuspendedError
	if errors.As(err, &suspended) {
		return http.StatusForbidden, errorPayload{
			Type:         "tenant_suspended",
			Message:      "this account is suspended",
			SupportEmail: suspended.SupportEmail,
		}
	}

	var disabled *FeatureDisabledError
	if errors.As(err, &disabled) {
		return http.StatusForbidden, errorPayload{
			Type:    "feature_disabled",
			Message: "feature is not enabled for this shop",
			Feature: string(disabled.Feature),
		}
	}

	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "authentication_required",
			Message: "authentication required",
		}
	case errors.Is(err, ErrOwnerAccessRequired):
		return http.StatusForbidden, errorPayload{
			Type:    "owner_access_required",
			Message: "platform owner access required",
		}
	case errors.Is(err, ErrPlatformAccessViolation):
		return http.StatusForbidden, errorPayload{
			Type:    "platform_access_required_violation",
			Message: "owner principal must not carry a tenant",
		}
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, resolver.ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, tenantdomain.ErrSlugTaken),
		errors.Is(err, tenantdomain.ErrDomainTaken):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, featuredomain.ErrUnknownKey),
		errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, tenantdomain.ErrInvalidDomain),
		errors.Is(err, tenantdomain.ErrInvalidStatus),
		errors.Is(err, tenantdomain.ErrInvalidID),
		errors.Is(err, tenantdomain.ErrInvalidMaxSeat),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, repairdomain.ErrInvalidCustomer),
		errors.Is(err, repairdomain.ErrInvalidDevice),
		errors.Is(err, repairdomain.ErrInvalidIssue),
		errors.Is(err, repairdomain.ErrQuoteDisabled):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTenantNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
