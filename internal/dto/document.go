package dto

import "time"

// DocumentUploadResponse is returned after a successful upload. The id
// is what applications reference; the raw path never leaves the server.
type DocumentUploadResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// SignedDocumentURL grants time-limited access to a stored document.
type SignedDocumentURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
