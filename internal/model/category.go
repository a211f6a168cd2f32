package model

import (
	"errors"
	"time"
)

// Category groups posts and products. Categories nest through ParentID.
type Category struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	AuthorID    string    `json:"author_id"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Ref returns the short form of the category used when reporting children.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Title: c.Title, Slug: c.Slug}
}

// CategoryRef identifies a category without its full body.
type CategoryRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ErrCategoryHasChildren is returned by storage when a category cannot be
// removed because another category names it as parent.
var ErrCategoryHasChildren = errors.New("category has children")

// MaxCategoryDescLength bounds category descriptions.
const MaxCategoryDescLength = 1000

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Title       string  `json:"title"`
	Slug        *string `json:"slug,omitempty"`
	CustomSlug  *string `json:"custom_slug,omitempty"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateCategoryRequest) Validate() []FieldError {
	var errors []FieldError
	errors = append(errors, validateTitle(r.Title, "title", true)...)
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateParent(TableCategory, r.ParentID)...)
	if len(r.Description) > MaxCategoryDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 1000 characters or less"})
	}
	return errors
}

// UpdateCategoryRequest represents a request to update a category.
// An empty parent_id moves the category to the top level.
type UpdateCategoryRequest struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	CustomSlug  *string `json:"custom_slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateCategoryRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Title != nil {
		errors = append(errors, validateTitle(*r.Title, "title", false)...)
	}
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateParent(TableCategory, r.ParentID)...)
	if r.Description != nil && len(*r.Description) > MaxCategoryDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 1000 characters or less"})
	}
	return errors
}
