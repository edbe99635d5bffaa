package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/service"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
	"github.com/villageflow/villageflow-api/pkg/response"
)

// DocumentHandler exposes proof document upload and retrieval endpoints.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload godoc
// @Summary Upload a proof document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param kind formData string true "ADDRESS_PROOF or SUBJECT_ID"
// @Param file formData file true "Document file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	kind := models.DocumentKind(strings.ToUpper(c.PostForm("kind")))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	uploaded, err := h.documents.Upload(c.Request.Context(), claimsFromContext(c), kind, fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, uploaded)
}

// ListMine godoc
// @Summary List the caller's uploaded documents
// @Tags Documents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) ListMine(c *gin.Context) {
	docs, err := h.documents.ListMine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// SignedURL godoc
// @Summary Issue a time-limited download URL
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) SignedURL(c *gin.Context) {
	signed, err := h.documents.SignedURL(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signed, nil)
}

// Download godoc
// @Summary Download a document with a signed token
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Param token query string true "Signed access token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token required"))
		return
	}

	doc, file, err := h.documents.OpenByToken(c.Request.Context(), c.Param("id"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+doc.Filename)
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.MimeType, file, nil)
}
