package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/repository"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type applicationRepoStub struct {
	apps   map[string]*models.Application
	filter models.ApplicationFilter
	counts map[models.ApplicationStatus]int
}

func newApplicationRepoStub() *applicationRepoStub {
	return &applicationRepoStub{apps: make(map[string]*models.Application)}
}

func (s *applicationRepoStub) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = "app-" + app.SubjectNIC
	}
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
	s.apps[app.ID] = app
	return nil
}

func (s *applicationRepoStub) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := s.apps[id]; ok {
		copy := *app
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *applicationRepoStub) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	s.filter = filter
	result := make([]models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		result = append(result, *app)
	}
	return result, nil
}

func (s *applicationRepoStub) UpdatePending(ctx context.Context, app *models.Application) error {
	existing, ok := s.apps[app.ID]
	if !ok || existing.Status != models.StatusPending || existing.OwnerID != app.OwnerID {
		return sql.ErrNoRows
	}
	s.apps[app.ID] = app
	return nil
}

func (s *applicationRepoStub) DeletePending(ctx context.Context, id, ownerID string) error {
	existing, ok := s.apps[id]
	if !ok || existing.Status != models.StatusPending || existing.OwnerID != ownerID {
		return sql.ErrNoRows
	}
	delete(s.apps, id)
	return nil
}

func (s *applicationRepoStub) UpdateReview(ctx context.Context, params repository.ReviewParams) error {
	existing, ok := s.apps[params.ID]
	if !ok || existing.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	existing.Status = params.Status
	existing.ReviewedBy = &params.ReviewedBy
	existing.ReviewedAt = &params.ReviewedAt
	existing.RejectionReason = params.Reason
	return nil
}

func (s *applicationRepoStub) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error) {
	return s.counts, nil
}

type auditRecorderStub struct {
	entries []*models.AuditEntry
}

func (a *auditRecorderStub) Create(ctx context.Context, entry *models.AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

type documentFinderStub struct {
	docs map[string]*models.StoredDocument
}

func (d *documentFinderStub) GetByID(ctx context.Context, id string) (*models.StoredDocument, error) {
	if doc, ok := d.docs[id]; ok {
		return doc, nil
	}
	return nil, sql.ErrNoRows
}

type verifyCacheStub struct {
	values map[string]dto.VerificationResult
	sets   int
}

func (c *verifyCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if v, ok := c.values[key]; ok {
		*(dest.(*dto.VerificationResult)) = v
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (c *verifyCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = make(map[string]dto.VerificationResult)
	}
	c.values[key] = value.(dto.VerificationResult)
	c.sets++
	return nil
}

type notifierStub struct {
	notified []string
}

func (n *notifierStub) NotifyApproval(app *models.Application) {
	n.notified = append(n.notified, app.ID)
}

func citizenClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleCitizen, NIC: "912345678V", FullName: "Nimal Perera"}
}

func officerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "officer-1", Role: models.RoleOfficer, NIC: "801234567V", FullName: "GN Officer"}
}

func newTestApplicationService(repo *applicationRepoStub, docs *documentFinderStub, audit *auditRecorderStub, cache *verifyCacheStub, notifier *notifierStub) *ApplicationService {
	// Avoid wrapping typed nil pointers in the interface parameters:
	// the service's nil checks only see untyped nil interfaces.
	var d documentFinder
	if docs != nil {
		d = docs
	}
	var c verifyCache
	if cache != nil {
		c = cache
	}
	var n approvalNotifier
	if notifier != nil {
		n = notifier
	}
	return NewApplicationService(repo, d, audit, c, n, nil, time.Minute)
}

func TestApplicationServiceSubmitSelf(t *testing.T) {
	repo := newApplicationRepoStub()
	docs := &documentFinderStub{docs: map[string]*models.StoredDocument{
		"doc-1": {ID: "doc-1", OwnerID: "user-1"},
	}}
	audit := &auditRecorderStub{}
	svc := newTestApplicationService(repo, docs, audit, nil, nil)

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForSelf,
		CertificateType: models.CertificateResidency,
		ProofDocumentID: "doc-1",
	}, citizenClaims())
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, app.Status)
	require.Equal(t, "Nimal Perera", app.SubjectName)
	require.Equal(t, "912345678V", app.SubjectNIC)
	require.Equal(t, models.RelationshipSelf, app.Relationship)
	require.Len(t, audit.entries, 1)
}

func TestApplicationServiceSubmitValidationFields(t *testing.T) {
	repo := newApplicationRepoStub()
	svc := newTestApplicationService(repo, &documentFinderStub{}, &auditRecorderStub{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForFamily,
		SubjectNIC:      "not-a-nic",
		Relationship:    "Uncle",
		CertificateType: models.CertificateCharacter,
	}, citizenClaims())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Contains(t, appErr.Fields, "proofDocumentId")
	require.Contains(t, appErr.Fields, "subjectIdDocumentId")
	require.Contains(t, appErr.Fields, "relationship")
	require.Contains(t, appErr.Fields, "subjectName")
	require.Contains(t, appErr.Fields, "subjectNic")
}

func TestApplicationServiceSubmitMinorSkipsNICChecks(t *testing.T) {
	repo := newApplicationRepoStub()
	docs := &documentFinderStub{docs: map[string]*models.StoredDocument{
		"doc-1": {ID: "doc-1", OwnerID: "user-1"},
	}}
	svc := newTestApplicationService(repo, docs, &auditRecorderStub{}, nil, nil)

	app, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForFamily,
		SubjectName:     "Sunil Perera",
		SubjectNIC:      "child-no-nic",
		Relationship:    "Son",
		CertificateType: models.CertificateBirthCopy,
		ProofDocumentID: "doc-1",
	}, citizenClaims())
	require.NoError(t, err)
	require.Equal(t, models.MinorNICSentinel, app.SubjectNIC)
}

func TestApplicationServiceSubmitRejectsForeignDocument(t *testing.T) {
	repo := newApplicationRepoStub()
	docs := &documentFinderStub{docs: map[string]*models.StoredDocument{
		"doc-1": {ID: "doc-1", OwnerID: "someone-else"},
	}}
	svc := newTestApplicationService(repo, docs, &auditRecorderStub{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SubmitApplicationRequest{
		ApplyFor:        models.ApplyForSelf,
		CertificateType: models.CertificateResidency,
		ProofDocumentID: "doc-1",
	}, citizenClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceApprove(t *testing.T) {
	repo := newApplicationRepoStub()
	audit := &auditRecorderStub{}
	notifier := &notifierStub{}
	repo.apps["app-1"] = &models.Application{
		ID: "app-1", OwnerID: "user-1", Status: models.StatusPending, SubjectNIC: "912345678V",
	}
	svc := newTestApplicationService(repo, nil, audit, nil, notifier)

	app, err := svc.Approve(context.Background(), "app-1", officerClaims())
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, app.Status)
	require.NotNil(t, app.ReviewedBy)
	require.Equal(t, "officer-1", *app.ReviewedBy)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionApplicationApprove, audit.entries[0].Action)
	require.Equal(t, []string{"app-1"}, notifier.notified)
}

func TestApplicationServiceRejectRequiresReason(t *testing.T) {
	repo := newApplicationRepoStub()
	repo.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusPending}
	svc := newTestApplicationService(repo, nil, &auditRecorderStub{}, nil, nil)

	_, err := svc.Reject(context.Background(), "app-1", "   ", officerClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// no transition happened
	require.Equal(t, models.StatusPending, repo.apps["app-1"].Status)
}

func TestApplicationServiceSecondReviewerLoses(t *testing.T) {
	repo := newApplicationRepoStub()
	audit := &auditRecorderStub{}
	repo.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusPending}
	svc := newTestApplicationService(repo, nil, audit, nil, nil)

	_, err := svc.Approve(context.Background(), "app-1", officerClaims())
	require.NoError(t, err)

	second := &models.JWTClaims{UserID: "officer-2", Role: models.RoleOfficer}
	_, err = svc.Reject(context.Background(), "app-1", "late decision", second)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)

	require.Equal(t, models.StatusApproved, repo.apps["app-1"].Status)
	require.Len(t, audit.entries, 1)
}

func TestApplicationServiceReviewForbiddenForCitizens(t *testing.T) {
	repo := newApplicationRepoStub()
	repo.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusPending}
	svc := newTestApplicationService(repo, nil, &auditRecorderStub{}, nil, nil)

	_, err := svc.Approve(context.Background(), "app-1", citizenClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceUpdateAfterReviewFails(t *testing.T) {
	repo := newApplicationRepoStub()
	reviewedAt := time.Now().UTC()
	officer := "officer-1"
	repo.apps["app-1"] = &models.Application{
		ID: "app-1", OwnerID: "user-1", Status: models.StatusApproved,
		ReviewedBy: &officer, ReviewedAt: &reviewedAt,
	}
	svc := newTestApplicationService(repo, nil, &auditRecorderStub{}, nil, nil)

	_, err := svc.Update(context.Background(), "app-1", dto.UpdateApplicationRequest{
		CertificateType: models.CertificateCharacter,
	}, citizenClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceVerify(t *testing.T) {
	repo := newApplicationRepoStub()
	cache := &verifyCacheStub{}
	reviewedAt := time.Now().UTC()
	officer := "officer-1"
	repo.apps["approved"] = &models.Application{
		ID: "approved", OwnerID: "user-1", Status: models.StatusApproved,
		SubjectName: "Nimal Perera", SubjectNIC: "912345678V",
		CertificateType: models.CertificateResidency,
		ReviewedBy:      &officer, ReviewedAt: &reviewedAt,
	}
	repo.apps["pending"] = &models.Application{ID: "pending", Status: models.StatusPending}
	svc := newTestApplicationService(repo, nil, &auditRecorderStub{}, cache, nil)

	result := svc.Verify(context.Background(), "approved")
	require.True(t, result.Authentic)
	require.NotNil(t, result.Details)
	require.Equal(t, "approved", result.Details.ReferenceID)
	require.Equal(t, 1, cache.sets)

	// cached on the second hit
	result = svc.Verify(context.Background(), "approved")
	require.True(t, result.Authentic)
	require.Equal(t, 1, cache.sets)

	// pending, rejected, and missing all look identical
	for _, id := range []string{"pending", "missing"} {
		result = svc.Verify(context.Background(), id)
		require.False(t, result.Authentic)
		require.Nil(t, result.Details)
	}
}

func TestApplicationServiceReport(t *testing.T) {
	repo := newApplicationRepoStub()
	repo.counts = map[models.ApplicationStatus]int{
		models.StatusPending:  3,
		models.StatusApproved: 5,
		models.StatusRejected: 2,
	}
	svc := newTestApplicationService(repo, nil, &auditRecorderStub{}, nil, nil)

	report, err := svc.Report(context.Background(), officerClaims())
	require.NoError(t, err)
	require.Equal(t, 10, report.Total)
	require.Equal(t, 3, report.Pending)

	_, err = svc.Report(context.Background(), citizenClaims())
	require.Error(t, err)
}
