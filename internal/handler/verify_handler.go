package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/service"
	"github.com/villageflow/villageflow-api/pkg/response"
)

// VerifyHandler serves the public certificate verification endpoint.
type VerifyHandler struct {
	applications *service.ApplicationService
}

// NewVerifyHandler constructs the handler.
func NewVerifyHandler(applications *service.ApplicationService) *VerifyHandler {
	return &VerifyHandler{applications: applications}
}

// Verify godoc
// @Summary Verify a certificate reference
// @Description Public check that a certificate reference was genuinely issued
// @Tags Verification
// @Produce json
// @Param id path string true "Certificate reference ID"
// @Success 200 {object} response.Envelope
// @Router /verify/{id} [get]
func (h *VerifyHandler) Verify(c *gin.Context) {
	result := h.applications.Verify(c.Request.Context(), c.Param("id"))
	response.JSON(c, http.StatusOK, result, nil)
}
