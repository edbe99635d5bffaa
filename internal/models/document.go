package models

import "time"

// DocumentKind labels what an uploaded file is meant to prove.
type DocumentKind string

const (
	DocumentAddressProof DocumentKind = "ADDRESS_PROOF"
	DocumentSubjectID    DocumentKind = "SUBJECT_ID"
)

// StoredDocument is the metadata row for an uploaded proof file. The file
// itself lives on disk under an opaque relative path; callers only ever
// see the document id.
type StoredDocument struct {
	ID         string       `db:"id" json:"id"`
	OwnerID    string       `db:"owner_id" json:"owner_id"`
	Kind       DocumentKind `db:"kind" json:"kind"`
	Filename   string       `db:"filename" json:"filename"`
	MimeType   string       `db:"mime_type" json:"mime_type"`
	SizeBytes  int64        `db:"size_bytes" json:"size_bytes"`
	StoredPath string       `db:"stored_path" json:"-"`
	UploadedAt time.Time    `db:"uploaded_at" json:"uploaded_at"`
}
