package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	repairdomain "github.com/smallbiznis/shopkeeper/internal/repair/domain"
)

func (s *Server) CreateRepairTicket(c *gin.Context) {
	var req repairdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.repairSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListRepairTickets(c *gin.Context) {
	items, err := s.repairSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
