package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type auditStore interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error)
}

// AuditService exposes the audit trail to officers. The trail itself is
// append-only; this service never mutates entries.
type AuditService struct {
	repo   auditStore
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(repo auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit entries, newest first. Officer only.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter, actor *models.JWTClaims) ([]models.AuditEntry, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit entries")
	}
	return entries, nil
}
