package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/dto"
	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

type documentStore interface {
	Create(ctx context.Context, doc *models.StoredDocument) error
	GetByID(ctx context.Context, id string) (*models.StoredDocument, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.StoredDocument, error)
}

type fileStore interface {
	SaveStream(relPath string, r io.Reader) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
}

type urlSigner interface {
	Generate(id, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (id, relPath string, expiresAt time.Time, err error)
}

// DocumentConfig bounds uploads.
type DocumentConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// DocumentService stores proof uploads on disk and hands out signed
// download URLs so raw paths never leave the server.
type DocumentService struct {
	repo   documentStore
	files  fileStore
	signer urlSigner
	logger *zap.Logger
	config DocumentConfig
}

// NewDocumentService constructs the service.
func NewDocumentService(repo documentStore, files fileStore, signer urlSigner, logger *zap.Logger, config DocumentConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxFileSizeBytes <= 0 {
		config.MaxFileSizeBytes = 5 << 20
	}
	return &DocumentService{repo: repo, files: files, signer: signer, logger: logger, config: config}
}

// Upload validates and persists a document, returning its opaque ref.
func (s *DocumentService) Upload(ctx context.Context, actor *models.JWTClaims, kind models.DocumentKind, filename, mimeType string, size int64, r io.Reader) (*dto.DocumentUploadResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	switch kind {
	case models.DocumentAddressProof, models.DocumentSubjectID:
	default:
		return nil, appErrors.Validation(map[string]string{"kind": "must be ADDRESS_PROOF or SUBJECT_ID"})
	}
	if size <= 0 || size > s.config.MaxFileSizeBytes {
		return nil, appErrors.Validation(map[string]string{"file": fmt.Sprintf("file size must be between 1 byte and %d bytes", s.config.MaxFileSizeBytes)})
	}
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Validation(map[string]string{"file": "unsupported file type"})
	}

	doc := &models.StoredDocument{
		ID:        uuid.NewString(),
		OwnerID:   actor.UserID,
		Kind:      kind,
		Filename:  filepath.Base(filename),
		MimeType:  mimeType,
		SizeBytes: size,
	}
	doc.StoredPath = filepath.Join("documents", doc.ID+strings.ToLower(filepath.Ext(doc.Filename)))

	if _, err := s.files.SaveStream(doc.StoredPath, io.LimitReader(r, s.config.MaxFileSizeBytes)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if rmErr := s.files.Delete(doc.StoredPath); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("path", doc.StoredPath), zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record document")
	}

	return &dto.DocumentUploadResponse{
		ID:         doc.ID,
		Kind:       string(doc.Kind),
		Filename:   doc.Filename,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// SignedURL issues a time-limited download link. The document owner and
// officers may request one.
func (s *DocumentService) SignedURL(ctx context.Context, docID string, actor *models.JWTClaims) (*dto.SignedDocumentURL, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if actor.Role != models.RoleOfficer && doc.OwnerID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}

	token, expiresAt, err := s.signer.Generate(doc.ID, doc.StoredPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return &dto.SignedDocumentURL{
		URL:       fmt.Sprintf("/documents/%s/download?token=%s", doc.ID, token),
		ExpiresAt: expiresAt,
	}, nil
}

// OpenByToken validates a signed token and opens the underlying file for
// streaming. Callers must close the returned file.
func (s *DocumentService) OpenByToken(ctx context.Context, docID, token string) (*models.StoredDocument, *os.File, error) {
	tokenDocID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil || tokenDocID != docID {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.ErrNotFound
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if doc.StoredPath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.files.Open(doc.StoredPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open stored file")
	}
	return doc, file, nil
}

// ListMine returns the caller's uploads.
func (s *DocumentService) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.StoredDocument, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	docs, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}

func (s *DocumentService) mimeAllowed(mimeType string) bool {
	if len(s.config.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMIMEs {
		if strings.EqualFold(strings.TrimSpace(allowed), mimeType) {
			return true
		}
	}
	return false
}
