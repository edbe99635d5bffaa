package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/villageflow/villageflow-api/internal/models"
)

const applicationColumns = `id, owner_id, apply_for, subject_name, subject_nic, relationship, certificate_type,
       proof_document_ref, subject_id_document_ref, status, rejection_reason, reviewed_by, reviewed_at, submitted_at`

// ApplicationRepository persists certificate application workflow data.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application row.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO applications
	(id, owner_id, apply_for, subject_name, subject_nic, relationship, certificate_type, proof_document_ref, subject_id_document_ref, status, rejection_reason, reviewed_by, reviewed_at, submitted_at)
	VALUES (:id, :owner_id, :apply_for, :subject_name, :subject_nic, :relationship, :certificate_type, :proof_document_ref, :subject_id_document_ref, :status, :rejection_reason, :reviewed_by, :reviewed_at, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetByID fetches an application by identifier.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE id = $1`, applicationColumns)
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns applications matching the filter (newest first).
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(fmt.Sprintf(`SELECT %s FROM applications`, applicationColumns))

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ApplyFor != "" {
		args = append(args, filter.ApplyFor)
		conditions = append(conditions, fmt.Sprintf("apply_for = $%d", len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// UpdatePending rewrites editable fields while the application is still
// pending. Document refs on file are left untouched. Returns
// sql.ErrNoRows when the row was already reviewed.
func (r *ApplicationRepository) UpdatePending(ctx context.Context, app *models.Application) error {
	query := fmt.Sprintf(`UPDATE applications SET
	apply_for = :apply_for,
	subject_name = :subject_name,
	subject_nic = :subject_nic,
	relationship = :relationship,
	certificate_type = :certificate_type
	WHERE id = :id AND owner_id = :owner_id AND status = '%s'`, models.StatusPending)
	result, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePending removes a still-pending application owned by the caller.
// Returns sql.ErrNoRows when nothing matched.
func (r *ApplicationRepository) DeletePending(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM applications WHERE id = $1 AND owner_id = $2 AND status = '%s'`, models.StatusPending)
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReviewParams groups the columns written by a review decision.
type ReviewParams struct {
	ID         string
	Status     models.ApplicationStatus
	ReviewedBy string
	ReviewedAt time.Time
	Reason     *string
}

// UpdateReview persists an approve or reject decision. The status guard
// makes the transition atomic so only the first decision on a pending
// application lands; later attempts see sql.ErrNoRows.
func (r *ApplicationRepository) UpdateReview(ctx context.Context, params ReviewParams) error {
	query := fmt.Sprintf(`UPDATE applications SET status = :status, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at, rejection_reason = :rejection_reason
	WHERE id = :id AND status = '%s'`, models.StatusPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":               params.ID,
		"status":           params.Status,
		"reviewed_by":      params.ReviewedBy,
		"reviewed_at":      params.ReviewedAt,
		"rejection_reason": params.Reason,
	})
	if err != nil {
		return fmt.Errorf("update application review: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application review rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus aggregates application totals for officer reporting.
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM applications GROUP BY status`
	rows := []struct {
		Status models.ApplicationStatus `db:"status"`
		Total  int                      `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}
	counts := make(map[models.ApplicationStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
