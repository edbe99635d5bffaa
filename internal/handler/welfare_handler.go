package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/service"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
	"github.com/villageflow/villageflow-api/pkg/response"
)

// WelfareHandler exposes welfare scheme endpoints.
type WelfareHandler struct {
	welfare *service.WelfareService
	exports *service.ExportService
}

// NewWelfareHandler constructs the handler.
func NewWelfareHandler(welfare *service.WelfareService, exports *service.ExportService) *WelfareHandler {
	return &WelfareHandler{welfare: welfare, exports: exports}
}

// Apply godoc
// @Summary Apply for a welfare scheme
// @Tags Welfare
// @Accept json
// @Produce json
// @Param payload body dto.CreateWelfareRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /welfare [post]
func (h *WelfareHandler) Apply(c *gin.Context) {
	var req dto.CreateWelfareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	beneficiary, err := h.welfare.Apply(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, beneficiary)
}

// List godoc
// @Summary List welfare beneficiaries (officer)
// @Tags Welfare
// @Produce json
// @Param scheme query string false "Scheme filter"
// @Param status query string false "Status filter"
// @Param maxIncome query int false "Maximum monthly income"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /welfare [get]
func (h *WelfareHandler) List(c *gin.Context) {
	var query dto.WelfareQuery
	query.Scheme = models.WelfareScheme(strings.ToUpper(c.Query("scheme")))
	query.Status = models.WelfareStatus(strings.ToUpper(c.Query("status")))
	if income, err := strconv.ParseInt(c.Query("maxIncome"), 10, 64); err == nil {
		query.MaxIncome = income
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		query.Offset = offset
	}

	beneficiaries, err := h.welfare.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, beneficiaries, nil)
}

// Update godoc
// @Summary Update a welfare enrollment (officer)
// @Tags Welfare
// @Accept json
// @Produce json
// @Param id path string true "Beneficiary ID"
// @Param payload body dto.UpdateWelfareRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /welfare/{id} [put]
func (h *WelfareHandler) Update(c *gin.Context) {
	var req dto.UpdateWelfareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	beneficiary, err := h.welfare.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, beneficiary, nil)
}

// Delete godoc
// @Summary Remove a welfare enrollment (officer)
// @Tags Welfare
// @Produce json
// @Param id path string true "Beneficiary ID"
// @Success 204 {object} response.Envelope
// @Router /welfare/{id} [delete]
func (h *WelfareHandler) Delete(c *gin.Context) {
	if err := h.welfare.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export the beneficiary register as CSV (officer)
// @Tags Welfare
// @Produce text/csv
// @Success 200 {file} binary
// @Router /welfare/export [get]
func (h *WelfareHandler) ExportCSV(c *gin.Context) {
	data, err := h.exports.WelfareCSV(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=welfare-beneficiaries.csv")
	c.Data(http.StatusOK, "text/csv", data)
}
