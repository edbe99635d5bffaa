package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	"github.com/villageflow/villageflow-api/internal/repository"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type applicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	UpdatePending(ctx context.Context, app *models.Application) error
	DeletePending(ctx context.Context, id, ownerID string) error
	UpdateReview(ctx context.Context, params repository.ReviewParams) error
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error)
}

type auditRecorder interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
}

type documentFinder interface {
	GetByID(ctx context.Context, id string) (*models.StoredDocument, error)
}

type verifyCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type approvalNotifier interface {
	NotifyApproval(app *models.Application)
}

const verifyCacheKeyPrefix = "verify:"

// ApplicationService orchestrates the certificate application workflow:
// citizen submissions, officer review, and public verification.
type ApplicationService struct {
	repo      applicationStore
	documents documentFinder
	audit     auditRecorder
	cache     verifyCache
	notifier  approvalNotifier
	metrics   *MetricsService
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewApplicationService constructs the service.
func NewApplicationService(repo applicationStore, documents documentFinder, audit auditRecorder, cache verifyCache, notifier approvalNotifier, logger *zap.Logger, cacheTTL time.Duration) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ApplicationService{
		repo:      repo,
		documents: documents,
		audit:     audit,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// SetMetrics attaches cache and query instrumentation for the
// verification path.
func (s *ApplicationService) SetMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

// Submit validates and stores a new certificate application.
func (s *ApplicationService) Submit(ctx context.Context, req dto.SubmitApplicationRequest, actor *models.JWTClaims) (*models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	app := &models.Application{
		OwnerID:         actor.UserID,
		ApplyFor:        models.ApplyFor(strings.ToUpper(string(req.ApplyFor))),
		SubjectName:     strings.TrimSpace(req.SubjectName),
		SubjectNIC:      strings.ToUpper(strings.TrimSpace(req.SubjectNIC)),
		Relationship:    strings.TrimSpace(req.Relationship),
		CertificateType: models.CertificateType(strings.ToUpper(string(req.CertificateType))),
	}
	if app.ApplyFor == models.ApplyForSelf {
		app.SubjectName = actor.FullName
		app.SubjectNIC = actor.NIC
		app.Relationship = models.RelationshipSelf
	}

	if err := s.validateSubmission(app, req.ProofDocumentID, req.SubjectIDDocumentID, true); err != nil {
		return nil, err
	}
	if err := s.checkDocumentOwnership(ctx, req.ProofDocumentID, req.SubjectIDDocumentID, actor.UserID); err != nil {
		return nil, err
	}

	app.ProofDocumentRef = req.ProofDocumentID
	if req.SubjectIDDocumentID != "" {
		ref := req.SubjectIDDocumentID
		app.SubjectIDDocumentRef = &ref
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	s.emitAudit(ctx, &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     models.AuditActionApplicationSubmit,
		Resource:   "application",
		ResourceID: &app.ID,
		SubjectNIC: app.SubjectNIC,
	})
	return app, nil
}

// Update edits a still-pending application owned by the caller. Documents
// already on file are kept.
func (s *ApplicationService) Update(ctx context.Context, id string, req dto.UpdateApplicationRequest, actor *models.JWTClaims) (*models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if app.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "application has already been reviewed")
	}

	if req.ApplyFor != "" {
		app.ApplyFor = models.ApplyFor(strings.ToUpper(string(req.ApplyFor)))
	}
	if req.SubjectName != "" {
		app.SubjectName = strings.TrimSpace(req.SubjectName)
	}
	if req.SubjectNIC != "" {
		app.SubjectNIC = strings.ToUpper(strings.TrimSpace(req.SubjectNIC))
	}
	if req.Relationship != "" {
		app.Relationship = strings.TrimSpace(req.Relationship)
	}
	if req.CertificateType != "" {
		app.CertificateType = models.CertificateType(strings.ToUpper(string(req.CertificateType)))
	}
	if app.ApplyFor == models.ApplyForSelf {
		app.SubjectName = actor.FullName
		app.SubjectNIC = actor.NIC
		app.Relationship = models.RelationshipSelf
	}

	subjectIDRef := ""
	if app.SubjectIDDocumentRef != nil {
		subjectIDRef = *app.SubjectIDDocumentRef
	}
	if err := s.validateSubmission(app, app.ProofDocumentRef, subjectIDRef, false); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePending(ctx, app); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "application has already been reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	s.emitAudit(ctx, &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     models.AuditActionApplicationEdit,
		Resource:   "application",
		ResourceID: &app.ID,
		SubjectNIC: app.SubjectNIC,
	})
	return app, nil
}

// Delete removes a still-pending application owned by the caller.
func (s *ApplicationService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	app, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if app.Terminal() {
		return appErrors.Clone(appErrors.ErrInvalidState, "application has already been reviewed")
	}
	if err := s.repo.DeletePending(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidState, "application has already been reviewed")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete application")
	}

	s.emitAudit(ctx, &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     models.AuditActionApplicationDelete,
		Resource:   "application",
		ResourceID: &id,
		SubjectNIC: app.SubjectNIC,
	})
	return nil
}

// Get returns an application visible to the caller: owners see their
// own, officers see everything.
func (s *ApplicationService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if actor.Role != models.RoleOfficer && app.OwnerID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	return app, nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, query dto.ApplicationQuery, actor *models.JWTClaims) ([]models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	apps, err := s.repo.List(ctx, models.ApplicationFilter{
		Status:  query.Status,
		OwnerID: actor.UserID,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// ListAll returns applications across all citizens. Officer only.
func (s *ApplicationService) ListAll(ctx context.Context, query dto.ApplicationQuery, actor *models.JWTClaims) ([]models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	apps, err := s.repo.List(ctx, models.ApplicationFilter{
		Status:   query.Status,
		ApplyFor: query.ApplyFor,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// Approve marks a pending application approved. The conditional update
// at the store guarantees only the first concurrent decision lands.
func (s *ApplicationService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Application, error) {
	return s.review(ctx, id, models.StatusApproved, "", actor)
}

// Reject marks a pending application rejected with a mandatory reason.
func (s *ApplicationService) Reject(ctx context.Context, id string, reason string, actor *models.JWTClaims) (*models.Application, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Validation(map[string]string{"reason": "rejection reason is required"})
	}
	return s.review(ctx, id, models.StatusRejected, strings.TrimSpace(reason), actor)
}

func (s *ApplicationService) review(ctx context.Context, id string, status models.ApplicationStatus, reason string, actor *models.JWTClaims) (*models.Application, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "application has already been reviewed")
	}

	now := time.Now().UTC()
	params := repository.ReviewParams{
		ID:         app.ID,
		Status:     status,
		ReviewedBy: actor.UserID,
		ReviewedAt: now,
	}
	if reason != "" {
		params.Reason = &reason
	}
	if err := s.repo.UpdateReview(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "application was reviewed by another officer")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record review decision")
	}

	app.Status = status
	app.ReviewedBy = &actor.UserID
	app.ReviewedAt = &now
	if reason != "" {
		app.RejectionReason = &reason
	}

	action := models.AuditActionApplicationApprove
	if status == models.StatusRejected {
		action = models.AuditActionApplicationReject
	}
	detail, _ := json.Marshal(map[string]string{"status": string(status), "reason": reason})
	s.emitAudit(ctx, &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     action,
		Resource:   "application",
		ResourceID: &app.ID,
		SubjectNIC: app.SubjectNIC,
		Detail:     detail,
	})

	if status == models.StatusApproved && s.notifier != nil {
		s.notifier.NotifyApproval(app)
	}
	return app, nil
}

// Verify answers the public certificate check. Anything other than an
// approved application yields authentic=false with no further detail.
func (s *ApplicationService) Verify(ctx context.Context, id string) dto.VerificationResult {
	cacheKey := verifyCacheKeyPrefix + id
	if s.cache != nil {
		var cached dto.VerificationResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Authentic {
			s.metrics.RecordCacheOperation(true)
			return cached
		}
		s.metrics.RecordCacheOperation(false)
	}

	start := time.Now()
	app, err := s.repo.GetByID(ctx, id)
	s.metrics.ObserveDBQuery("applications_get_by_id", time.Since(start))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("verification lookup failed", zap.String("id", id), zap.Error(err))
		}
		return dto.VerificationResult{Authentic: false}
	}
	if app.Status != models.StatusApproved || app.ReviewedAt == nil {
		return dto.VerificationResult{Authentic: false}
	}

	result := dto.VerificationResult{
		Authentic: true,
		Details: &dto.VerificationDetails{
			ReferenceID:     app.ID,
			SubjectName:     app.SubjectName,
			SubjectNIC:      app.SubjectNIC,
			CertificateType: app.CertificateType,
			IssuedAt:        *app.ReviewedAt,
		},
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache verification result", zap.String("id", id), zap.Error(err))
		}
	}
	return result
}

// Report aggregates status totals for the officer dashboard.
func (s *ApplicationService) Report(ctx context.Context, actor *models.JWTClaims) (*models.ApplicationReport, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	start := time.Now()
	counts, err := s.repo.CountByStatus(ctx)
	s.metrics.ObserveDBQuery("applications_count_by_status", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate applications")
	}
	report := &models.ApplicationReport{
		Pending:     counts[models.StatusPending],
		Approved:    counts[models.StatusApproved],
		Rejected:    counts[models.StatusRejected],
		GeneratedAt: time.Now().UTC(),
	}
	report.Total = report.Pending + report.Approved + report.Rejected
	return report, nil
}

func (s *ApplicationService) loadOwned(ctx context.Context, id string, actor *models.JWTClaims) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.OwnerID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	return app, nil
}

// validateSubmission enforces the submission rules in order, collecting
// every violation into a field-keyed error map.
func (s *ApplicationService) validateSubmission(app *models.Application, proofRef, subjectIDRef string, creating bool) error {
	fields := make(map[string]string)

	if app.ApplyFor != models.ApplyForSelf && app.ApplyFor != models.ApplyForFamily {
		fields["applyFor"] = "must be SELF or FAMILY"
	}
	switch app.CertificateType {
	case models.CertificateResidency, models.CertificateCharacter, models.CertificateBirthCopy, models.CertificateMarriageCopy:
	default:
		fields["certificateType"] = "unsupported certificate type"
	}

	minor := app.ApplyFor == models.ApplyForFamily && strings.EqualFold(app.SubjectNIC, models.MinorNICSentinel)
	if minor {
		app.SubjectNIC = models.MinorNICSentinel
	}

	if creating && proofRef == "" {
		fields["proofDocumentId"] = "proof document is required"
	}
	if creating && app.ApplyFor == models.ApplyForFamily && !minor && subjectIDRef == "" {
		fields["subjectIdDocumentId"] = "subject ID document is required"
	}
	if app.ApplyFor == models.ApplyForFamily {
		if _, ok := models.FamilyRelationships[app.Relationship]; !ok {
			fields["relationship"] = "unsupported relationship"
		}
		if app.SubjectName == "" {
			fields["subjectName"] = "subject name is required"
		}
	}
	if !minor && !models.ValidNIC(app.SubjectNIC) {
		fields["subjectNic"] = "must be 9 digits followed by V/X, or 12 digits"
	}

	if len(fields) > 0 {
		return appErrors.Validation(fields)
	}
	return nil
}

// checkDocumentOwnership confirms referenced uploads exist and belong to
// the applicant.
func (s *ApplicationService) checkDocumentOwnership(ctx context.Context, proofRef, subjectIDRef, ownerID string) error {
	if s.documents == nil {
		return nil
	}
	refs := map[string]string{"proofDocumentId": proofRef}
	if subjectIDRef != "" {
		refs["subjectIdDocumentId"] = subjectIDRef
	}
	for field, ref := range refs {
		if ref == "" {
			continue
		}
		doc, err := s.documents.GetByID(ctx, ref)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Validation(map[string]string{field: "referenced document does not exist"})
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check document")
		}
		if doc.OwnerID != ownerID {
			return appErrors.Validation(map[string]string{field: "referenced document does not exist"})
		}
	}
	return nil
}

func (s *ApplicationService) emitAudit(ctx context.Context, entry *models.AuditEntry) {
	if s.audit == nil || entry == nil {
		return
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to persist audit entry", zap.Error(err))
	}
}
