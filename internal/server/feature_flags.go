package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/shopkeeper/pkg/tenantctx"
)

// GetFeatureFlags serves the effective flag values for the resolved tenant.
// Client mirrors poll this; raw values never leave the server.
func (s *Server) GetFeatureFlags(c *gin.Context) {
	tc, ok := tenantctx.From(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrTenantNotFound)
		return
	}
	c.JSON(http.StatusOK, tc.Features.Effective())
}
