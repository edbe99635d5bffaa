package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
)

func testPortalIdentity() PortalIdentity {
	return PortalIdentity{
		District:              "Monaragala",
		DivisionalSecretariat: "Bibile",
		GNDivision:            "Kotagama",
		VerifyBaseURL:         "http://localhost:3000/verify",
	}
}

func TestExportServiceCertificate(t *testing.T) {
	apps := newApplicationRepoStub()
	users := newUserRepoStub()
	reviewedAt := time.Now().UTC()
	officer := "officer-1"
	apps.apps["app-1"] = &models.Application{
		ID: "app-1", OwnerID: "user-1", Status: models.StatusApproved,
		SubjectName: "Nimal Perera", SubjectNIC: "912345678V",
		CertificateType: models.CertificateResidency,
		Relationship:    models.RelationshipSelf,
		ReviewedBy:      &officer, ReviewedAt: &reviewedAt,
	}
	users.add(&models.User{ID: "user-1", FullName: "Nimal Perera"})
	users.add(&models.User{ID: "officer-1", FullName: "GN Officer"})

	svc := NewExportService(apps, users, newWelfareRepoStub(), testPortalIdentity(), nil)

	pdf, err := svc.Certificate(context.Background(), "app-1", citizenClaims())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	require.Equal(t, "%PDF", string(pdf[:4]))
}

func TestExportServiceCertificateRequiresApproval(t *testing.T) {
	apps := newApplicationRepoStub()
	apps.apps["app-1"] = &models.Application{ID: "app-1", OwnerID: "user-1", Status: models.StatusPending}
	svc := NewExportService(apps, newUserRepoStub(), newWelfareRepoStub(), testPortalIdentity(), nil)

	_, err := svc.Certificate(context.Background(), "app-1", citizenClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)

	// other citizens cannot download someone else's certificate
	other := &models.JWTClaims{UserID: "user-2", Role: models.RoleCitizen}
	_, err = svc.Certificate(context.Background(), "app-1", other)
	require.Error(t, err)
}

func TestExportServiceReportPDF(t *testing.T) {
	svc := NewExportService(newApplicationRepoStub(), newUserRepoStub(), newWelfareRepoStub(), testPortalIdentity(), nil)

	report := &models.ApplicationReport{Total: 10, Pending: 3, Approved: 5, Rejected: 2, GeneratedAt: time.Now()}
	pdf, err := svc.ReportPDF(context.Background(), report, officerClaims())
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(pdf[:4]))

	_, err = svc.ReportPDF(context.Background(), report, citizenClaims())
	require.Error(t, err)
}

func TestExportServiceWelfareCSV(t *testing.T) {
	welfare := newWelfareRepoStub()
	welfare.byID["wf-1"] = &models.WelfareBeneficiary{
		ID: "wf-1", FullName: "Kamala Perera", NIC: "575678901V",
		HouseholdNo: "HH-42", Scheme: models.SchemeSamurdhi,
		Amount: 7500, MonthlyIncome: 22000, Status: models.WelfareActive,
	}
	svc := NewExportService(newApplicationRepoStub(), newUserRepoStub(), welfare, testPortalIdentity(), nil)

	data, err := svc.WelfareCSV(context.Background(), officerClaims())
	require.NoError(t, err)
	require.Contains(t, string(data), "Kamala Perera")
	require.Contains(t, string(data), "SAMURDHI")
}
