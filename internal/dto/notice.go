package dto

// CreateNoticeRequest posts a public announcement.
type CreateNoticeRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category"`
}

// UpdateNoticeRequest edits an announcement.
type UpdateNoticeRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}
