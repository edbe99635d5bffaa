package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/villageflow/villageflow-api/internal/models"
)

const welfareColumns = `id, full_name, nic, household_no, scheme, amount, monthly_income, status, created_at, updated_at`

// WelfareRepository persists allowance scheme enrollments.
type WelfareRepository struct {
	db *sqlx.DB
}

// NewWelfareRepository constructs the repository.
func NewWelfareRepository(db *sqlx.DB) *WelfareRepository {
	return &WelfareRepository{db: db}
}

// Create inserts a new beneficiary row.
func (r *WelfareRepository) Create(ctx context.Context, b *models.WelfareBeneficiary) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.WelfareActive
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	const query = `INSERT INTO welfare_beneficiaries (id, full_name, nic, household_no, scheme, amount, monthly_income, status, created_at, updated_at)
	VALUES (:id, :full_name, :nic, :household_no, :scheme, :amount, :monthly_income, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("create welfare beneficiary: %w", err)
	}
	return nil
}

// GetByID fetches a beneficiary by identifier.
func (r *WelfareRepository) GetByID(ctx context.Context, id string) (*models.WelfareBeneficiary, error) {
	query := fmt.Sprintf(`SELECT %s FROM welfare_beneficiaries WHERE id = $1`, welfareColumns)
	var b models.WelfareBeneficiary
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByNICAndScheme looks up an existing enrollment so duplicates can
// be rejected before insert.
func (r *WelfareRepository) FindByNICAndScheme(ctx context.Context, nic string, scheme models.WelfareScheme) (*models.WelfareBeneficiary, error) {
	query := fmt.Sprintf(`SELECT %s FROM welfare_beneficiaries WHERE UPPER(nic) = UPPER($1) AND scheme = $2 LIMIT 1`, welfareColumns)
	var b models.WelfareBeneficiary
	if err := r.db.GetContext(ctx, &b, query, nic, scheme); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns beneficiaries matching the filter (newest first).
func (r *WelfareRepository) List(ctx context.Context, filter models.WelfareFilter) ([]models.WelfareBeneficiary, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(fmt.Sprintf(`SELECT %s FROM welfare_beneficiaries`, welfareColumns))

	conditions := make([]string, 0, 3)
	if filter.Scheme != "" {
		args = append(args, filter.Scheme)
		conditions = append(conditions, fmt.Sprintf("scheme = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.MaxIncome > 0 {
		args = append(args, filter.MaxIncome)
		conditions = append(conditions, fmt.Sprintf("monthly_income <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var beneficiaries []models.WelfareBeneficiary
	if err := r.db.SelectContext(ctx, &beneficiaries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list welfare beneficiaries: %w", err)
	}
	return beneficiaries, nil
}

// Update rewrites mutable beneficiary fields.
func (r *WelfareRepository) Update(ctx context.Context, b *models.WelfareBeneficiary) error {
	b.UpdatedAt = time.Now().UTC()
	const query = `UPDATE welfare_beneficiaries SET amount = :amount, monthly_income = :monthly_income, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		return fmt.Errorf("update welfare beneficiary: %w", err)
	}
	return nil
}

// Delete removes a beneficiary record.
func (r *WelfareRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM welfare_beneficiaries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete welfare beneficiary: %w", err)
	}
	return nil
}
