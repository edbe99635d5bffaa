package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/models"
)

func newApplicationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "apply_for", "subject_name", "subject_nic", "relationship",
		"certificate_type", "proof_document_ref", "subject_id_document_ref", "status",
		"rejection_reason", "reviewed_by", "reviewed_at", "submitted_at",
	})
}

func TestApplicationRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	app := &models.Application{
		OwnerID:          "user-1",
		ApplyFor:         models.ApplyForSelf,
		SubjectName:      "Nimal Perera",
		SubjectNIC:       "912345678V",
		Relationship:     models.RelationshipSelf,
		CertificateType:  models.CertificateResidency,
		ProofDocumentRef: "doc-1",
	}
	require.NoError(t, repo.Create(context.Background(), app))
	require.NotEmpty(t, app.ID)
	require.Equal(t, models.StatusPending, app.Status)

	rows := applicationRows().AddRow(
		app.ID, "user-1", "SELF", "Nimal Perera", "912345678V", "Self",
		"RESIDENCY", "doc-1", nil, "PENDING", nil, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, apply_for")).
		WithArgs(app.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, app.ID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	rows := applicationRows().AddRow(
		"app-1", "user-1", "FAMILY", "Kamala Perera", "575678901V", "Mother",
		"CHARACTER", "doc-2", "doc-3", "PENDING", nil, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, apply_for")).
		WithArgs("PENDING", "user-1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.ApplicationFilter{
		Status:  []models.ApplicationStatus{models.StatusPending},
		OwnerID: "user-1",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "app-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateReview(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET")).WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.UpdateReview(context.Background(), ReviewParams{
		ID:         "app-1",
		Status:     models.StatusApproved,
		ReviewedBy: "officer-1",
		ReviewedAt: now,
	})
	require.NoError(t, err)

	// second decision on the same row finds no pending match
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications SET")).WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateReview(context.Background(), ReviewParams{
		ID:         "app-1",
		Status:     models.StatusRejected,
		ReviewedBy: "officer-2",
		ReviewedAt: now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDeletePending(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications")).
		WithArgs("app-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeletePending(context.Background(), "app-1", "user-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow("PENDING", 4).
		AddRow("APPROVED", 10).
		AddRow("REJECTED", 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*)")).WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, counts[models.StatusPending])
	require.Equal(t, 10, counts[models.StatusApproved])
	require.Equal(t, 2, counts[models.StatusRejected])
	require.NoError(t, mock.ExpectationsWereMet())
}
