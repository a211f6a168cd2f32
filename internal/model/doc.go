// Package model defines domain entities and data structures for the Folio API.
//
// The model package contains all struct definitions for domain objects, request
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Slugged resources, each unique by slug within its own collection:
//
//   - Page: hierarchical site page
//   - Post: dated blog entry with categories and tags
//   - Product: catalog item with pricing and stock
//   - Category: nestable grouping for posts and products
//   - Content: generic author-owned entry
//
// Other resources:
//
//   - Menu: navigation tree bound to a location
//   - Media: uploaded file owned by its uploader
//   - SiteSettings: the single site-wide settings record
//   - User: account with a role; Identity is its authorization view
//
// # Slugs
//
// DeriveSlug is the one normalization rule used everywhere:
//
//	DeriveSlug("Hello, World!") // "hello-world"
//
// ResolveSlug applies the precedence an explicit slug > custom_slug >
// derived-from-changed-title > stored slug.
//
// # Validation
//
// Request types expose Validate() []FieldError. A non-empty result is reported
// to clients as a 400 with one entry per field.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go. Every problem body
// carries a message field alongside detail.
package model
