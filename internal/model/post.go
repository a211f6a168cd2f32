package model

import "time"

// Post is a dated blog entry.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content,omitempty"`
	ContentHTML   string     `json:"content_html,omitempty"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Status        Status     `json:"status"`
	CategoryIDs   []string   `json:"category_ids"`
	Tags          []string   `json:"tags"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	SEO           *SEO       `json:"seo,omitempty"`
	AuthorID      string     `json:"author_id"`
	PublishedOn   *time.Time `json:"published_on,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
	// Populated on single-record reads
	Author *AuthorSummary `json:"author,omitempty"`
}

// CreatePostRequest represents a request to create a post
type CreatePostRequest struct {
	Title         string   `json:"title"`
	Slug          *string  `json:"slug,omitempty"`
	CustomSlug    *string  `json:"custom_slug,omitempty"`
	Content       string   `json:"content,omitempty"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Status        *string  `json:"status,omitempty"`
	CategoryIDs   []string `json:"category_ids,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FeaturedImage *string  `json:"featured_image,omitempty"`
	SEO           *SEO     `json:"seo,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreatePostRequest) Validate() []FieldError {
	var errors []FieldError
	errors = append(errors, validateTitle(r.Title, "title", true)...)
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	errors = append(errors, validateRefs("category_ids", TableCategory, r.CategoryIDs)...)
	errors = append(errors, validateTags(r.Tags)...)
	errors = append(errors, validateSEO(r.SEO)...)
	if len(r.Excerpt) > MaxExcerptLength {
		errors = append(errors, FieldError{Field: "excerpt", Message: "excerpt must be 500 characters or less"})
	}
	if r.FeaturedImage != nil && *r.FeaturedImage != "" {
		errors = append(errors, validateRefs("featured_image", TableMedia, []string{*r.FeaturedImage})...)
	}
	return errors
}

// UpdatePostRequest represents a request to update a post
type UpdatePostRequest struct {
	Title         *string   `json:"title,omitempty"`
	Slug          *string   `json:"slug,omitempty"`
	CustomSlug    *string   `json:"custom_slug,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Status        *string   `json:"status,omitempty"`
	CategoryIDs   *[]string `json:"category_ids,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
	SEO           *SEO      `json:"seo,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdatePostRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Title != nil {
		errors = append(errors, validateTitle(*r.Title, "title", false)...)
	}
	errors = append(errors, validateSlugFields(r.Slug, r.CustomSlug)...)
	errors = append(errors, validateStatus(r.Status)...)
	if r.CategoryIDs != nil {
		errors = append(errors, validateRefs("category_ids", TableCategory, *r.CategoryIDs)...)
	}
	if r.Tags != nil {
		errors = append(errors, validateTags(*r.Tags)...)
	}
	errors = append(errors, validateSEO(r.SEO)...)
	if r.Excerpt != nil && len(*r.Excerpt) > MaxExcerptLength {
		errors = append(errors, FieldError{Field: "excerpt", Message: "excerpt must be 500 characters or less"})
	}
	if r.FeaturedImage != nil && *r.FeaturedImage != "" {
		errors = append(errors, validateRefs("featured_image", TableMedia, []string{*r.FeaturedImage})...)
	}
	return errors
}
