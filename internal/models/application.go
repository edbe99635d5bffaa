package models

import "time"

// ApplyFor distinguishes certificates requested for the account holder
// from those requested on behalf of a named family member.
type ApplyFor string

const (
	ApplyForSelf   ApplyFor = "SELF"
	ApplyForFamily ApplyFor = "FAMILY"
)

// CertificateType enumerates the certificates a Grama Niladhari can issue.
type CertificateType string

const (
	CertificateResidency    CertificateType = "RESIDENCY"
	CertificateCharacter    CertificateType = "CHARACTER"
	CertificateBirthCopy    CertificateType = "BIRTH_COPY"
	CertificateMarriageCopy CertificateType = "MARRIAGE_COPY"
)

// ApplicationStatus captures the review lifecycle of a certificate request.
// PENDING is the only non-terminal state.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// MinorNICSentinel replaces the subject NIC when the certificate subject
// is a child without a national identity card.
const MinorNICSentinel = "CHILD-NO-NIC"

// RelationshipSelf marks applications the account holder files for themselves.
const RelationshipSelf = "Self"

// FamilyRelationships is the fixed set accepted for family applications.
var FamilyRelationships = map[string]struct{}{
	"Mother":      {},
	"Father":      {},
	"Spouse":      {},
	"Son":         {},
	"Daughter":    {},
	"Brother":     {},
	"Sister":      {},
	"Grandmother": {},
	"Grandfather": {},
}

// Application is a certificate request owned by a citizen account and
// reviewed by an officer. Document refs are opaque stored-file identifiers;
// the workflow never inspects file contents.
type Application struct {
	ID                   string            `db:"id" json:"id"`
	OwnerID              string            `db:"owner_id" json:"owner_id"`
	ApplyFor             ApplyFor          `db:"apply_for" json:"apply_for"`
	SubjectName          string            `db:"subject_name" json:"subject_name"`
	SubjectNIC           string            `db:"subject_nic" json:"subject_nic"`
	Relationship         string            `db:"relationship" json:"relationship"`
	CertificateType      CertificateType   `db:"certificate_type" json:"certificate_type"`
	ProofDocumentRef     string            `db:"proof_document_ref" json:"proof_document_ref"`
	SubjectIDDocumentRef *string           `db:"subject_id_document_ref" json:"subject_id_document_ref,omitempty"`
	Status               ApplicationStatus `db:"status" json:"status"`
	RejectionReason      *string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy           *string           `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
	SubmittedAt          time.Time         `db:"submitted_at" json:"submitted_at"`
}

// Terminal reports whether the application has reached a final state.
func (a *Application) Terminal() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}

// ApplicationFilter constrains officer listing queries.
type ApplicationFilter struct {
	Status   []ApplicationStatus
	ApplyFor ApplyFor
	OwnerID  string
	Limit    int
	Offset   int
}

// ApplicationReport aggregates status counts for the officer dashboard.
type ApplicationReport struct {
	Total       int       `json:"total"`
	Pending     int       `json:"pending"`
	Approved    int       `json:"approved"`
	Rejected    int       `json:"rejected"`
	GeneratedAt time.Time `json:"generated_at"`
}
