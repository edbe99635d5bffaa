package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/villageflow/villageflow-api/internal/models"
)

// DocumentRepository persists uploaded document metadata.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document metadata row.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.StoredDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO documents (id, owner_id, kind, filename, mime_type, size_bytes, stored_path, uploaded_at)
	VALUES (:id, :owner_id, :kind, :filename, :mime_type, :size_bytes, :stored_path, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID fetches document metadata by identifier.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.StoredDocument, error) {
	const query = `SELECT id, owner_id, kind, filename, mime_type, size_bytes, stored_path, uploaded_at FROM documents WHERE id = $1`
	var doc models.StoredDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByOwner returns every document uploaded by the given user.
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.StoredDocument, error) {
	const query = `SELECT id, owner_id, kind, filename, mime_type, size_bytes, stored_path, uploaded_at FROM documents WHERE owner_id = $1 ORDER BY uploaded_at DESC`
	var docs []models.StoredDocument
	if err := r.db.SelectContext(ctx, &docs, query, ownerID); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
