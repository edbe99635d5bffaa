package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/models"
)

func TestAuditRepositoryCreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditRepository(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	officerID := "officer-1"
	entry := &models.AuditEntry{
		ActorID:    &officerID,
		Action:     models.AuditActionApplicationApprove,
		Resource:   "application",
		SubjectNIC: "912345678V",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)

	rows := sqlmock.NewRows([]string{
		"id", "actor_id", "action", "resource", "resource_id", "subject_nic",
		"detail", "ip_address", "user_agent", "created_at",
	}).AddRow(entry.ID, officerID, "APPLICATION_APPROVED", "application", nil, "912345678V", nil, "127.0.0.1", "test", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, actor_id, action")).
		WithArgs("APPLICATION_APPROVED").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.AuditFilter{Action: models.AuditActionApplicationApprove})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "912345678V", list[0].SubjectNIC)
	require.NoError(t, mock.ExpectationsWereMet())
}
