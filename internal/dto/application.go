package dto

import (
	"time"

	"github.com/villageflow/villageflow-api/internal/models"
)

// SubmitApplicationRequest is the payload for a new certificate
// application. Subject fields are ignored for SELF applications and
// filled from the applicant's profile instead.
type SubmitApplicationRequest struct {
	ApplyFor            models.ApplyFor        `json:"applyFor" validate:"required"`
	SubjectName         string                 `json:"subjectName"`
	SubjectNIC          string                 `json:"subjectNic"`
	Relationship        string                 `json:"relationship"`
	CertificateType     models.CertificateType `json:"certificateType" validate:"required"`
	ProofDocumentID     string                 `json:"proofDocumentId" validate:"required"`
	SubjectIDDocumentID string                 `json:"subjectIdDocumentId"`
}

// UpdateApplicationRequest edits a pending application. Only the owner
// may edit, and only while the application is still pending. Documents
// already on file are kept as-is.
type UpdateApplicationRequest struct {
	ApplyFor        models.ApplyFor        `json:"applyFor"`
	SubjectName     string                 `json:"subjectName"`
	SubjectNIC      string                 `json:"subjectNic"`
	Relationship    string                 `json:"relationship"`
	CertificateType models.CertificateType `json:"certificateType"`
}

// RejectApplicationRequest carries the mandatory rejection reason.
type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ApplicationQuery mirrors supported listing filters.
type ApplicationQuery struct {
	Status   []models.ApplicationStatus
	ApplyFor models.ApplyFor
	Limit    int
	Offset   int
}

// VerificationResult is the public response for certificate checks.
// Non-approved lookups carry only authentic=false so the endpoint leaks
// nothing about missing, pending, or rejected applications.
type VerificationResult struct {
	Authentic bool                 `json:"authentic"`
	Details   *VerificationDetails `json:"details,omitempty"`
}

// VerificationDetails is returned only for approved certificates.
type VerificationDetails struct {
	ReferenceID     string                 `json:"referenceId"`
	SubjectName     string                 `json:"subjectName"`
	SubjectNIC      string                 `json:"subjectNic"`
	CertificateType models.CertificateType `json:"certificateType"`
	IssuedAt        time.Time              `json:"issuedAt"`
}
