package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/middleware"
	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/repository"
	"github.com/villageflow/villageflow-api/internal/service"
)

type applicationStoreMock struct {
	apps map[string]*models.Application
	seq  int
}

func newApplicationStoreMock() *applicationStoreMock {
	return &applicationStoreMock{apps: make(map[string]*models.Application)}
}

func (m *applicationStoreMock) Create(ctx context.Context, app *models.Application) error {
	m.seq++
	if app.ID == "" {
		app.ID = "app-" + string(rune('0'+m.seq))
	}
	app.Status = models.StatusPending
	m.apps[app.ID] = app
	return nil
}

func (m *applicationStoreMock) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := m.apps[id]; ok {
		copy := *app
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *applicationStoreMock) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	result := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		if filter.OwnerID != "" && app.OwnerID != filter.OwnerID {
			continue
		}
		result = append(result, *app)
	}
	return result, nil
}

func (m *applicationStoreMock) UpdatePending(ctx context.Context, app *models.Application) error {
	existing, ok := m.apps[app.ID]
	if !ok || existing.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	m.apps[app.ID] = app
	return nil
}

func (m *applicationStoreMock) DeletePending(ctx context.Context, id, ownerID string) error {
	existing, ok := m.apps[id]
	if !ok || existing.OwnerID != ownerID || existing.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	delete(m.apps, id)
	return nil
}

func (m *applicationStoreMock) UpdateReview(ctx context.Context, params repository.ReviewParams) error {
	existing, ok := m.apps[params.ID]
	if !ok || existing.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	existing.Status = params.Status
	existing.ReviewedBy = &params.ReviewedBy
	existing.ReviewedAt = &params.ReviewedAt
	existing.RejectionReason = params.Reason
	return nil
}

func (m *applicationStoreMock) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error) {
	counts := make(map[models.ApplicationStatus]int)
	for _, app := range m.apps {
		counts[app.Status]++
	}
	return counts, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newApplicationHandler(store *applicationStoreMock) *ApplicationHandler {
	svc := service.NewApplicationService(store, nil, nil, nil, nil, nil, time.Minute)
	return NewApplicationHandler(svc, nil)
}

func testCitizen() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleCitizen, NIC: "912345678V", FullName: "Nimal Perera"}
}

func testOfficer() *models.JWTClaims {
	return &models.JWTClaims{UserID: "officer-1", Role: models.RoleOfficer, NIC: "801234567V", FullName: "GN Officer"}
}

func TestApplicationHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newApplicationHandler(newApplicationStoreMock())

	payload, _ := json.Marshal(dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForSelf,
		CertificateType: models.CertificateResidency,
		ProofDocumentID: "doc-1",
	})
	c, w := newGinContext(http.MethodPost, "/applications", payload)
	c.Set(middleware.ContextUserKey, testCitizen())

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "PENDING")
}

func TestApplicationHandlerSubmitValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newApplicationHandler(newApplicationStoreMock())

	payload, _ := json.Marshal(dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForFamily,
		CertificateType: models.CertificateResidency,
	})
	c, w := newGinContext(http.MethodPost, "/applications", payload)
	c.Set(middleware.ContextUserKey, testCitizen())

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "proofDocumentId")
	require.Contains(t, w.Body.String(), "relationship")
}

func TestApplicationHandlerRejectRequiresReason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newApplicationStoreMock()
	store.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusPending, SubjectNIC: "912345678V"}
	handler := newApplicationHandler(store)

	payload, _ := json.Marshal(dto.RejectApplicationRequest{Reason: "  "})
	c, w := newGinContext(http.MethodPost, "/applications/app-1/reject", payload)
	c.Params = gin.Params{{Key: "id", Value: "app-1"}}
	c.Set(middleware.ContextUserKey, testOfficer())

	handler.Reject(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, models.StatusPending, store.apps["app-1"].Status)
}

func TestApplicationHandlerApproveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newApplicationStoreMock()
	store.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusRejected, SubjectNIC: "912345678V"}
	handler := newApplicationHandler(store)

	c, w := newGinContext(http.MethodPost, "/applications/app-1/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "app-1"}}
	c.Set(middleware.ContextUserKey, testOfficer())

	handler.Approve(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestApplicationHandlerReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newApplicationStoreMock()
	store.apps["app-1"] = &models.Application{ID: "app-1", Status: models.StatusPending}
	store.apps["app-2"] = &models.Application{ID: "app-2", Status: models.StatusApproved}
	handler := newApplicationHandler(store)

	c, w := newGinContext(http.MethodGet, "/applications/report", nil)
	c.Set(middleware.ContextUserKey, testOfficer())

	handler.Report(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.ApplicationReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.Total)
	require.Equal(t, 1, envelope.Data.Pending)
}
