package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
	"github.com/villageflow/villageflow-api/pkg/export"
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PortalIdentity names the office issuing certificates.
type PortalIdentity struct {
	District              string
	DivisionalSecretariat string
	GNDivision            string
	VerifyBaseURL         string
}

// ExportService renders certificates and officer reports.
type ExportService struct {
	apps        applicationStore
	users       userFinder
	welfare     welfareStore
	certificate *export.CertificateRenderer
	pdf         *export.PDFExporter
	csv         *export.CSVExporter
	identity    PortalIdentity
	logger      *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(apps applicationStore, users userFinder, welfare welfareStore, identity PortalIdentity, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		apps:        apps,
		users:       users,
		welfare:     welfare,
		certificate: export.NewCertificateRenderer(),
		pdf:         export.NewPDFExporter(),
		csv:         export.NewCSVExporter(),
		identity:    identity,
		logger:      logger,
	}
}

// Certificate renders the issued certificate PDF. Only the owner of an
// approved application (or an officer) may download it.
func (s *ExportService) Certificate(ctx context.Context, id string, actor *models.JWTClaims) ([]byte, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if actor.Role != models.RoleOfficer && app.OwnerID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	if app.Status != models.StatusApproved || app.ReviewedAt == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "certificate is only available for approved applications")
	}

	data := export.CertificateData{
		ReferenceID:           app.ID,
		SubjectName:           app.SubjectName,
		SubjectNIC:            app.SubjectNIC,
		CertificateType:       string(app.CertificateType),
		Relationship:          app.Relationship,
		IssuedAt:              *app.ReviewedAt,
		District:              s.identity.District,
		DivisionalSecretariat: s.identity.DivisionalSecretariat,
		GNDivision:            s.identity.GNDivision,
		VerifyURL:             strings.TrimRight(s.identity.VerifyBaseURL, "/") + "/" + app.ID,
	}
	if owner, err := s.users.FindByID(ctx, app.OwnerID); err == nil {
		data.ApplicantName = owner.FullName
	}
	if app.ReviewedBy != nil {
		if officer, err := s.users.FindByID(ctx, *app.ReviewedBy); err == nil {
			data.OfficerName = officer.FullName
		}
	}

	pdf, err := s.certificate.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return pdf, nil
}

// ReportPDF renders the analytics summary as a PDF. Officer only.
func (s *ExportService) ReportPDF(ctx context.Context, report *models.ApplicationReport, actor *models.JWTClaims) ([]byte, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	if report == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "missing report data")
	}

	dataset := export.Dataset{
		Columns: []string{"Status", "Count", "Share"},
		Rows: [][]string{
			reportRow("Pending", report.Pending, report.Total),
			reportRow("Approved", report.Approved, report.Total),
			reportRow("Rejected", report.Rejected, report.Total),
			{"Total", strconv.Itoa(report.Total), "100%"},
		},
	}
	pdf, err := s.pdf.Render(dataset, "Analytical Summary Report")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return pdf, nil
}

// WelfareCSV exports the beneficiary register. Officer only.
func (s *ExportService) WelfareCSV(ctx context.Context, actor *models.JWTClaims) ([]byte, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleOfficer {
		return nil, appErrors.ErrForbidden
	}
	beneficiaries, err := s.welfare.List(ctx, models.WelfareFilter{Limit: 200})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list beneficiaries")
	}

	dataset := export.Dataset{
		Columns: []string{"Full Name", "NIC", "Household No", "Scheme", "Amount", "Monthly Income", "Status"},
	}
	for _, b := range beneficiaries {
		dataset.Rows = append(dataset.Rows, []string{
			b.FullName,
			b.NIC,
			b.HouseholdNo,
			string(b.Scheme),
			strconv.FormatInt(b.Amount, 10),
			strconv.FormatInt(b.MonthlyIncome, 10),
			string(b.Status),
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

func reportRow(label string, count, total int) []string {
	share := "0%"
	if total > 0 {
		share = fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
	}
	return []string{label, strconv.Itoa(count), share}
}
