package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type assetStore interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context) ([]models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id string) error
}

const assetServiceOverdue = 180 * 24 * time.Hour

// AssetService manages the village asset inventory.
type AssetService struct {
	repo      assetStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssetService constructs the service.
func NewAssetService(repo assetStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssetService{repo: repo, audit: audit, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// HealthScore derives a condition score: start at 100, subtract 30 when
// the last service is older than 180 days, 50 when damaged, 40 when
// needing repair, floored at 10.
func HealthScore(asset *models.Asset, now time.Time) int {
	score := 100
	if now.Sub(asset.LastServiceDate) > assetServiceOverdue {
		score -= 30
	}
	switch asset.Condition {
	case models.ConditionDamaged:
		score -= 50
	case models.ConditionNeedRepair:
		score -= 40
	}
	if score < 10 {
		score = 10
	}
	return score
}

// Create registers an asset. Officer only.
func (s *AssetService) Create(ctx context.Context, req dto.CreateAssetRequest, actor *models.JWTClaims) (*models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}
	if !validCondition(req.Condition) {
		return nil, appErrors.Validation(map[string]string{"condition": "must be GOOD, NEED_REPAIR, or DAMAGED"})
	}

	asset := &models.Asset{
		ItemName:        strings.TrimSpace(req.ItemName),
		Quantity:        req.Quantity,
		Condition:       req.Condition,
		LastServiceDate: req.LastServiceDate,
		CreatedBy:       actor.UserID,
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}
	asset.HealthScore = HealthScore(asset, s.now())

	s.emitAudit(ctx, actor, asset.ID)
	return asset, nil
}

// List returns every asset with its derived health score. Officer only.
func (s *AssetService) List(ctx context.Context, actor *models.JWTClaims) ([]models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	now := s.now()
	for i := range assets {
		assets[i].HealthScore = HealthScore(&assets[i], now)
	}
	return assets, nil
}

// Update edits an asset record. Officer only.
func (s *AssetService) Update(ctx context.Context, id string, req dto.UpdateAssetRequest, actor *models.JWTClaims) (*models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}

	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}

	if req.ItemName != "" {
		asset.ItemName = strings.TrimSpace(req.ItemName)
	}
	if req.Quantity != nil {
		asset.Quantity = *req.Quantity
	}
	if req.Condition != "" {
		if !validCondition(req.Condition) {
			return nil, appErrors.Validation(map[string]string{"condition": "must be GOOD, NEED_REPAIR, or DAMAGED"})
		}
		asset.Condition = req.Condition
	}
	if req.LastServiceDate != nil {
		asset.LastServiceDate = *req.LastServiceDate
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset")
	}
	asset.HealthScore = HealthScore(asset, s.now())

	s.emitAudit(ctx, actor, asset.ID)
	return asset, nil
}

// Delete removes an asset record. Officer only.
func (s *AssetService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return appErrors.ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete asset")
	}
	s.emitAudit(ctx, actor, id)
	return nil
}

func validCondition(c models.AssetCondition) bool {
	switch c {
	case models.ConditionGood, models.ConditionNeedRepair, models.ConditionDamaged:
		return true
	}
	return false
}

func (s *AssetService) emitAudit(ctx context.Context, actor *models.JWTClaims, resourceID string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		ActorID:    &actor.UserID,
		Action:     models.AuditActionAssetChange,
		Resource:   "asset",
		ResourceID: &resourceID,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to persist audit entry", zap.Error(err))
	}
}
