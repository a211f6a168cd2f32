package model

import (
	"net/mail"
	"time"
)

// SettingsRecordID is the fixed id of the single site settings record.
const SettingsRecordID = TableSettings + ":global"

// SiteSettings holds site-wide configuration. There is exactly one record.
type SiteSettings struct {
	ID           string            `json:"id"`
	SiteName     string            `json:"site_name"`
	Tagline      string            `json:"tagline,omitempty"`
	LogoURL      string            `json:"logo_url,omitempty"`
	FaviconURL   string            `json:"favicon_url,omitempty"`
	ContactEmail string            `json:"contact_email,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	SEO          SEO               `json:"seo"`
	PostsPerPage int               `json:"posts_per_page"`
	UpdatedOn    *time.Time        `json:"updated_on,omitempty"`
}

// DefaultSiteSettings returns the settings served before the first write.
func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		ID:           SettingsRecordID,
		SiteName:     "Folio",
		PostsPerPage: 10,
		SocialLinks:  map[string]string{},
	}
}

// UpdateSiteSettingsRequest represents a request to update site settings.
// Only supplied fields are merged.
type UpdateSiteSettingsRequest struct {
	SiteName     *string            `json:"site_name,omitempty"`
	Tagline      *string            `json:"tagline,omitempty"`
	LogoURL      *string            `json:"logo_url,omitempty"`
	FaviconURL   *string            `json:"favicon_url,omitempty"`
	ContactEmail *string            `json:"contact_email,omitempty"`
	SocialLinks  *map[string]string `json:"social_links,omitempty"`
	SEO          *SEO               `json:"seo,omitempty"`
	PostsPerPage *int               `json:"posts_per_page,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateSiteSettingsRequest) Validate() []FieldError {
	var errors []FieldError
	if r.SiteName != nil {
		errors = append(errors, validateTitle(*r.SiteName, "site_name", false)...)
	}
	if r.ContactEmail != nil && *r.ContactEmail != "" {
		if _, err := mail.ParseAddress(*r.ContactEmail); err != nil {
			errors = append(errors, FieldError{Field: "contact_email", Message: "contact_email must be a valid email address"})
		}
	}
	if r.PostsPerPage != nil && (*r.PostsPerPage < 1 || *r.PostsPerPage > MaxPageSize) {
		errors = append(errors, FieldError{Field: "posts_per_page", Message: "posts_per_page must be between 1 and 100"})
	}
	errors = append(errors, validateSEO(r.SEO)...)
	return errors
}

// Apply merges the supplied fields into s.
func (r *UpdateSiteSettingsRequest) Apply(s *SiteSettings) {
	if r.SiteName != nil {
		s.SiteName = *r.SiteName
	}
	if r.Tagline != nil {
		s.Tagline = *r.Tagline
	}
	if r.LogoURL != nil {
		s.LogoURL = *r.LogoURL
	}
	if r.FaviconURL != nil {
		s.FaviconURL = *r.FaviconURL
	}
	if r.ContactEmail != nil {
		s.ContactEmail = *r.ContactEmail
	}
	if r.SocialLinks != nil {
		s.SocialLinks = *r.SocialLinks
	}
	if r.SEO != nil {
		s.SEO = *r.SEO
	}
	if r.PostsPerPage != nil {
		s.PostsPerPage = *r.PostsPerPage
	}
}
