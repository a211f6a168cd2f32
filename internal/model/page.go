package model

import "time"

// Page is a standalone, hierarchical site page.
type Page struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content,omitempty"`      // Markdown source
	ContentHTML   string     `json:"content_html,omitempty"` // Rendered on write
	Excerpt       string     `json:"excerpt,omitempty"`
	Status        Status     `json:"status"`
	ParentID      *string    `json:"parent_id,omitempty"`
	Template      string     `json:"template,omitempty"`
	MenuOrder     int        `json:"menu_order"`
	SEO           *SEO       `json:"seo,omitempty"`
	FeaturedImage *string    `json:"featured_image,omitempty"` // media id
	AuthorID      string     `json:"author_id"`
	PublishedOn   *time.Time `json:"published_on,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
}

// CreatePageRequest represents a request to create a page
type CreatePageRequest struct {
	Title         string  `json:"title"`
	Slug          *string `json:"slug,omitempty"`
	CustomSlug    *string `json:"custom_slug,omitempty"`
	Content       string  `json:"content,omitempty"`
	Excerpt       string  `json:"excerpt,omitempty"`
	Status        *string `json:"status,omitempty"`
	ParentID      *string `json:"parent_id,omitempty"`
	Template      string  `json:"template,omitempty"`
	MenuOrder     int     `json:"menu_order,omitempty"`
	SEO           *SEO    `json:"seo,omitempty"`
	FeaturedImage *string `json:"featured_image,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreatePageRequest) Validate() []FieldError {
	var errors []FieldError
	errors = append(errors, validateTitle(r.Title, "title", true)...)
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validateParent(TablePage, r.ParentID)...)
	errors = append(errors, validateSEO(r.SEO)...)
	if len(r.Excerpt) > MaxExcerptLength {
		errors = append(errors, FieldError{Field: "excerpt", Message: "excerpt must be 500 characters or less"})
	}
	if r.FeaturedImage != nil && *r.FeaturedImage != "" {
		errors = append(errors, validateRefs("featured_image", TableMedia, []string{*r.FeaturedImage})...)
	}
	return errors
}

// UpdatePageRequest represents a request to update a page. Nil fields are left unchanged;
// an empty parent_id detaches the page from its parent.
type UpdatePageRequest struct {
	Title         *string `json:"title,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	CustomSlug    *string `json:"custom_slug,omitempty"`
	Content       *string `json:"content,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty"`
	Status        *string `json:"status,omitempty"`
	ParentID      *string `json:"parent_id,omitempty"`
	Template      *string `json:"template,omitempty"`
	MenuOrder     *int    `json:"menu_order,omitempty"`
	SEO           *SEO    `json:"seo,omitempty"`
	FeaturedImage *string `json:"featured_image,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdatePageRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Title != nil {
		errors = append(errors, validateTitle(*r.Title, "title", false)...)
	}
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validateParent(TablePage, r.ParentID)...)
	errors = append(errors, validateSEO(r.SEO)...)
	if r.Excerpt != nil && len(*r.Excerpt) > MaxExcerptLength {
		errors = append(errors, FieldError{Field: "excerpt", Message: "excerpt must be 500 characters or less"})
	}
	if r.FeaturedImage != nil && *r.FeaturedImage != "" {
		errors = append(errors, validateRefs("featured_image", TableMedia, []string{*r.FeaturedImage})...)
	}
	return errors
}
