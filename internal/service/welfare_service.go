package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type welfareStore interface {
	Create(ctx context.Context, b *models.WelfareBeneficiary) error
	GetByID(ctx context.Context, id string) (*models.WelfareBeneficiary, error)
	FindByNICAndScheme(ctx context.Context, nic string, scheme models.WelfareScheme) (*models.WelfareBeneficiary, error)
	List(ctx context.Context, filter models.WelfareFilter) ([]models.WelfareBeneficiary, error)
	Update(ctx context.Context, b *models.WelfareBeneficiary) error
	Delete(ctx context.Context, id string) error
}

// WelfareService manages allowance scheme enrollments.
type WelfareService struct {
	repo      welfareStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWelfareService constructs the service.
func NewWelfareService(repo welfareStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *WelfareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WelfareService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Apply enrolls a household. Citizens and officers may both file; one
// enrollment per NIC and scheme.
func (s *WelfareService) Apply(ctx context.Context, req dto.CreateWelfareRequest, actor *models.JWTClaims) (*models.WelfareBeneficiary, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid welfare payload")
	}
	nic := strings.ToUpper(strings.TrimSpace(req.NIC))
	if !models.ValidNIC(nic) {
		return nil, appErrors.Validation(map[string]string{"nic": "must be 9 digits followed by V/X, or 12 digits"})
	}
	switch req.Scheme {
	case models.SchemeAswasuma, models.SchemeSamurdhi, models.SchemeElderlyAllowance:
	default:
		return nil, appErrors.Validation(map[string]string{"scheme": "unsupported scheme"})
	}

	if _, err := s.repo.FindByNICAndScheme(ctx, nic, req.Scheme); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this NIC is already enrolled in the scheme")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}

	b := &models.WelfareBeneficiary{
		FullName:      strings.TrimSpace(req.FullName),
		NIC:           nic,
		HouseholdNo:   strings.TrimSpace(req.HouseholdNo),
		Scheme:        req.Scheme,
		Amount:        req.Amount,
		MonthlyIncome: req.MonthlyIncome,
		Status:        models.WelfareActive,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.emitAudit(ctx, actor, models.AuditActionWelfareChange, b.ID, b.NIC)
	return b, nil
}

// List returns beneficiaries. Officer only: enrollment records expose
// income data.
func (s *WelfareService) List(ctx context.Context, query dto.WelfareQuery, actor *models.JWTClaims) ([]models.WelfareBeneficiary, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	list, err := s.repo.List(ctx, models.WelfareFilter{
		Scheme:    query.Scheme,
		Status:    query.Status,
		MaxIncome: query.MaxIncome,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list beneficiaries")
	}
	return list, nil
}

// Update adjusts amount, recorded income, or status. Officer only.
func (s *WelfareService) Update(ctx context.Context, id string, req dto.UpdateWelfareRequest, actor *models.JWTClaims) (*models.WelfareBeneficiary, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid welfare payload")
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load beneficiary")
	}

	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if req.MonthlyIncome != nil {
		b.MonthlyIncome = *req.MonthlyIncome
	}
	if req.Status != nil {
		switch *req.Status {
		case models.WelfareActive, models.WelfareInactive:
			b.Status = *req.Status
		default:
			return nil, appErrors.Validation(map[string]string{"status": "must be ACTIVE or INACTIVE"})
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update beneficiary")
	}

	s.emitAudit(ctx, actor, models.AuditActionWelfareChange, b.ID, b.NIC)
	return b, nil
}

// Delete removes an enrollment record. Officer only.
func (s *WelfareService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return appErrors.ErrForbidden
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load beneficiary")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete beneficiary")
	}
	s.emitAudit(ctx, actor, models.AuditActionWelfareChange, id, b.NIC)
	return nil
}

func (s *WelfareService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID, nic string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     action,
		Resource:   "welfare",
		ResourceID: &resourceID,
		SubjectNIC: nic,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to persist audit entry", zap.Error(err))
	}
}
