package handler

import (
	"fmt"
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

// ApplicationHandler exposes the certificate application endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
	exports      *service.ExportService
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(applications *service.ApplicationService, exports *service.ExportService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, exports: exports}
}

// Submit godoc
// @Summary Submit a certificate application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body dto.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app)
}

// Update godoc
// @Summary Edit a pending application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateApplicationRequest true "Application payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	app, err := h.applications.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app, nil)
}

// Delete godoc
// @Summary Withdraw a pending application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.applications.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Get godoc
// @Summary Get application detail
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applications.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// ListMine godoc
// @Summary List the caller's applications
// @Tags Applications
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applications.ListMine(c.Request.Context(), applicationQuery(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// ListAll godoc
// @Summary List all applications (officer)
// @Tags Applications
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param applyFor query string false "SELF or FAMILY"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /applications/all [get]
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	apps, err := h.applications.ListAll(c.Request.Context(), applicationQuery(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// Approve godoc
// @Summary Approve a pending application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *gin.Context) {
	app, err := h.applications.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Reject godoc
// @Summary Reject a pending application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *gin.Context) {
	var req dto.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "rejection reason required"))
		return
	}

	app, err := h.applications.Reject(c.Request.Context(), c.Param("id"), req.Reason, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Certificate godoc
// @Summary Download the issued certificate PDF
// @Tags Applications
// @Produce application/pdf
// @Param id path string true "Application ID"
// @Success 200 {file} binary
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/certificate [get]
func (h *ApplicationHandler) Certificate(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.exports.Certificate(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Report godoc
// @Summary Analytical summary of application statuses
// @Tags Applications
// @Produce json
// @Param format query string false "json or pdf"
// @Success 200 {object} response.Envelope
// @Router /applications/report [get]
func (h *ApplicationHandler) Report(c *gin.Context) {
	claims := claimsFromContext(c)
	report, err := h.applications.Report(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "pdf") {
		pdf, err := h.exports.ReportPDF(c.Request.Context(), report, claims)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=application-report.pdf")
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

func applicationQuery(c *gin.Context) dto.ApplicationQuery {
	var query dto.ApplicationQuery
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				query.Status = append(query.Status, models.ApplicationStatus(s))
			}
		}
	}
	query.ApplyFor = models.ApplyFor(strings.ToUpper(c.Query("applyFor")))
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		query.Offset = offset
	}
	return query
}
