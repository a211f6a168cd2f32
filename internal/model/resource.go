package model

import (
	"regexp"
	"strings"
	"time"
)

// Tables backing each resource collection.
const (
	TablePage     = "page"
	TablePost     = "post"
	TableProduct  = "product"
	TableCategory = "category"
	TableContent  = "content"
	TableMenu     = "menu"
	TableMedia    = "media"
	TableSettings = "site_settings"
	TableUser     = "user"
)

// Status is the publication state of a page, post, product or content entry.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// SEO holds search metadata overrides.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Constraints
const (
	MaxTitleLength     = 200
	MaxSlugLength      = 200
	MaxExcerptLength   = 500
	MaxSEOTitleLength  = 70
	MaxSEODescLength   = 160
	MaxTagsPerResource = 20
	MaxTagLength       = 40
	MaxParentDepth     = 32
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultSortField   = "created_on"
	maxRecordKeyLength = 64
)

var recordKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ParseRecordID normalizes raw into a "<table>:<key>" record id. It accepts
// either the bare key or the fully qualified form and reports false when raw
// is not a well-formed identifier for table.
func ParseRecordID(table, raw string) (string, bool) {
	key := raw
	if prefix, rest, found := strings.Cut(raw, ":"); found {
		if prefix != table {
			return "", false
		}
		key = rest
	}
	if key == "" || len(key) > maxRecordKeyLength || !recordKeyPattern.MatchString(key) {
		return "", false
	}
	return table + ":" + key, true
}

// ListParams describes a paginated, filtered, sorted listing.
type ListParams struct {
	Page     int
	PageSize int
	Sort     string // field name, "-" prefix for descending
	Filter   ListFilter
}

// ListFilter narrows a listing. Empty fields are ignored.
type ListFilter struct {
	Status      Status
	AuthorID    string
	ParentID    string // "none" selects records without a parent
	CategoryID  string
	Tag         string
	ContentType string
	MimeType    string // prefix match, e.g. "image/"
	Location    string
	Query       string // case-insensitive title substring
}

// Normalize clamps pagination to its allowed range.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the number of records to skip.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SortField splits Sort into a field and direction, applying the default
// when Sort is empty or names a field outside allowed.
func (p ListParams) SortField(allowed ...string) (field string, desc bool) {
	field = strings.TrimSpace(p.Sort)
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	for _, a := range allowed {
		if a == field {
			return field, desc
		}
	}
	return DefaultSortField, true
}

// ListResult is one page of a listing.
type ListResult[T any] struct {
	Items     []*T `json:"items"`
	Total     int  `json:"total"`
	Page      int  `json:"page"`
	PageSize  int  `json:"page_size"`
	PageCount int  `json:"page_count"`
}

// NewListResult assembles a page of results, computing the page count.
func NewListResult[T any](items []*T, total int, params ListParams) *ListResult[T] {
	if items == nil {
		items = []*T{}
	}
	pageCount := 0
	if params.PageSize > 0 {
		pageCount = (total + params.PageSize - 1) / params.PageSize
	}
	return &ListResult[T]{
		Items:     items,
		Total:     total,
		Page:      params.Page,
		PageSize:  params.PageSize,
		PageCount: pageCount,
	}
}

// StampPublished returns the publication time a record should carry once its
// status is status. An existing stamp is kept.
func StampPublished(status Status, current *time.Time, now time.Time) *time.Time {
	if current != nil || status != StatusPublished {
		return current
	}
	return &now
}

func validateTitle(title string, field string, required bool) []FieldError {
	trimmed := strings.TrimSpace(title)
	switch {
	case trimmed == "" && required:
		return []FieldError{{Field: field, Message: field + " is required"}}
	case trimmed == "":
		return []FieldError{{Field: field, Message: field + " cannot be empty"}}
	case len(title) > MaxTitleLength:
		return []FieldError{{Field: field, Message: field + " must be 200 characters or less"}}
	}
	return nil
}

func validateSlugFields(slug, customSlug *string) []FieldError {
	var errors []FieldError
	if slug != nil && len(*slug) > MaxSlugLength {
		errors = append(errors, FieldError{Field: "slug", Message: "slug must be 200 characters or less"})
	}
	if customSlug != nil && len(*customSlug) > MaxSlugLength {
		errors = append(errors, FieldError{Field: "custom_slug", Message: "custom_slug must be 200 characters or less"})
	}
	return errors
}

func validateStatus(status *string) []FieldError {
	if status != nil && !Status(*status).Valid() {
		return []FieldError{{Field: "status", Message: "status must be one of draft, published, archived"}}
	}
	return nil
}

func validateSEO(seo *SEO) []FieldError {
	if seo == nil {
		return nil
	}
	var errors []FieldError
	if len(seo.Title) > MaxSEOTitleLength {
		errors = append(errors, FieldError{Field: "seo.title", Message: "seo.title must be 70 characters or less"})
	}
	if len(seo.Description) > MaxSEODescLength {
		errors = append(errors, FieldError{Field: "seo.description", Message: "seo.description must be 160 characters or less"})
	}
	return errors
}

func validateTags(tags []string) []FieldError {
	if len(tags) > MaxTagsPerResource {
		return []FieldError{{Field: "tags", Message: "at most 20 tags are allowed"}}
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" || len(tag) > MaxTagLength {
			return []FieldError{{Field: "tags", Message: "tags must be 1 to 40 characters"}}
		}
	}
	return nil
}

func validateRefs(field, table string, ids []string) []FieldError {
	for _, id := range ids {
		if _, ok := ParseRecordID(table, id); !ok {
			return []FieldError{{Field: field, Message: field + " contains an invalid id"}}
		}
	}
	return nil
}

func validateParent(table string, parentID *string) []FieldError {
	if parentID == nil || *parentID == "" {
		return nil
	}
	if _, ok := ParseRecordID(table, *parentID); !ok {
		return []FieldError{{Field: "parent_id", Message: "parent_id is not a valid id"}}
	}
	return nil
}
