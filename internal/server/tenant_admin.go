package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
)

type createTenantRequest struct {
	Name         string                `json:"name"`
	SupportEmail string                `json:"support_email"`
	Domain       string                `json:"domain"`
	Flags        featuredomain.FlagSet `json:"flags"`
}

func (s *Server) CreateTenant(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.Create(c.Request.Context(), tenantdomain.CreateRequest{
		Name:         strings.TrimSpace(req.Name),
		SupportEmail: strings.TrimSpace(req.SupportEmail),
		Domain:       strings.TrimSpace(req.Domain),
		Flags:        req.Flags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetTenant(c *gin.Context) {
	resp, err := s.tenantSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type bindDomainRequest struct {
	Domain    string `json:"domain"`
	IsPrimary bool   `json:"is_primary"`
}

func (s *Server) BindTenantDomain(c *gin.Context) {
	var req bindDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.BindDomain(c.Request.Context(), c.Param("id"), tenantdomain.BindDomainRequest{
		Domain:    strings.TrimSpace(req.Domain),
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateTenantStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateTenantFlags(c *gin.Context) {
	var flags featuredomain.FlagSet
	if err := c.ShouldBindJSON(&flags); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.tenantSvc.UpdateFlags(c.Request.Context(), c.Param("id"), flags)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
