package model

import (
	"regexp"
	"time"
)

// Content is a generic, author-owned entry such as a reusable block or FAQ item.
type Content struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Body        string            `json:"body,omitempty"`
	BodyHTML    string            `json:"body_html,omitempty"`
	ContentType string            `json:"content_type"`
	Status      Status            `json:"status"`
	ParentID    *string           `json:"parent_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	AuthorID    string            `json:"author_id"`
	PublishedOn *time.Time        `json:"published_on,omitempty"`
	CreatedOn   time.Time         `json:"created_on"`
	UpdatedOn   time.Time         `json:"updated_on"`
	// Populated on single-record reads
	Author *AuthorSummary `json:"author,omitempty"`
}

// Constraints
const (
	DefaultContentType = "entry"
	MaxMetadataEntries = 50
	MaxMetadataValue   = 2000
)

var contentTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,39}$`)

// CreateContentRequest represents a request to create a content entry
type CreateContentRequest struct {
	Title       string            `json:"title"`
	Slug        *string           `json:"slug,omitempty"`
	CustomSlug  *string           `json:"custom_slug,omitempty"`
	Body        string            `json:"body,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Status      *string           `json:"status,omitempty"`
	ParentID    *string           `json:"parent_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateContentRequest) Validate() []FieldError {
	var errors []FieldError
	errors = append(errors, validateTitle(r.Title, "title", true)...)
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validateParent(TableContent, r.ParentID)...)
	if r.ContentType != "" && !contentTypePattern.MatchString(r.ContentType) {
		errors = append(errors, FieldError{Field: "content_type", Message: "content_type must be lowercase letters, digits, '-' or '_'"})
	}
	errors = append(errors, validateMetadata(r.Metadata)...)
	return errors
}

// UpdateContentRequest represents a request to update a content entry
type UpdateContentRequest struct {
	Title       *string            `json:"title,omitempty"`
	Slug        *string            `json:"slug,omitempty"`
	CustomSlug  *string            `json:"custom_slug,omitempty"`
	Body        *string            `json:"body,omitempty"`
	ContentType *string            `json:"content_type,omitempty"`
	Status      *string            `json:"status,omitempty"`
	ParentID    *string            `json:"parent_id,omitempty"`
	Metadata    *map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateContentRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Title != nil {
		errors = append(errors, validateTitle(*r.Title, "title", false)...)
	}
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validateParent(TableContent, r.ParentID)...)
	if r.ContentType != nil && !contentTypePattern.MatchString(*r.ContentType) {
		errors = append(errors, FieldError{Field: "content_type", Message: "content_type must be lowercase letters, digits, '-' or '_'"})
	}
	if r.Metadata != nil {
		errors = append(errors, validateMetadata(*r.Metadata)...)
	}
	return errors
}

func validateMetadata(metadata map[string]string) []FieldError {
	if len(metadata) > MaxMetadataEntries {
		return []FieldError{{Field: "metadata", Message: "at most 50 metadata entries are allowed"}}
	}
	for k, v := range metadata {
		if k == "" || len(v) > MaxMetadataValue {
			return []FieldError{{Field: "metadata", Message: "metadata keys must be non-empty and values 2000 characters or less"}}
		}
	}
	return nil
}
