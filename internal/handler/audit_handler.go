package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/service"
	"github.com/villageflow/villageflow-api/pkg/response"
)

// AuditHandler exposes the audit trail listing endpoint.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List audit entries (officer)
// @Tags Audit
// @Produce json
// @Param action query string false "Action filter"
// @Param actorId query string false "Actor filter"
// @Param resource query string false "Resource filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter models.AuditFilter
	filter.Action = strings.ToUpper(strings.TrimSpace(c.Query("action")))
	filter.ActorID = c.Query("actorId")
	filter.Resource = c.Query("resource")
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	entries, err := h.audit.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
