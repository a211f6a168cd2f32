package model

import "time"

// StorageKind names where a media object's bytes live.
type StorageKind string

const (
	StorageLocal StorageKind = "local"
	StorageS3    StorageKind = "s3"
)

// Media is an uploaded file. Media is owned by its uploader.
type Media struct {
	ID           string      `json:"id"`
	Filename     string      `json:"filename"`
	OriginalName string      `json:"original_name"`
	MimeType     string      `json:"mime_type"`
	Size         int64       `json:"size"`
	Checksum     string      `json:"checksum"` // xxhash64, hex
	URL          string      `json:"url"`
	Storage      StorageKind `json:"storage"`
	StorageKey   string      `json:"-"`
	AltText      string      `json:"alt_text,omitempty"`
	Caption      string      `json:"caption,omitempty"`
	AuthorID     string      `json:"author_id"`
	CreatedOn    time.Time   `json:"created_on"`
	UpdatedOn    time.Time   `json:"updated_on"`
}

// Constraints
const (
	MaxAltTextLength = 250
	MaxCaptionLength = 1000
)

// UpdateMediaRequest represents a request to update media metadata
type UpdateMediaRequest struct {
	AltText *string `json:"alt_text,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateMediaRequest) Validate() []FieldError {
	var errors []FieldError
	if r.AltText != nil && len(*r.AltText) > MaxAltTextLength {
		errors = append(errors, FieldError{Field: "alt_text", Message: "alt_text must be 250 characters or less"})
	}
	if r.Caption != nil && len(*r.Caption) > MaxCaptionLength {
		errors = append(errors, FieldError{Field: "caption", Message: "caption must be 1000 characters or less"})
	}
	return errors
}
