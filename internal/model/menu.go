package model

import (
	"regexp"
	"strings"
	"time"
)

// Menu is a named navigation tree rendered at a theme location.
type Menu struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	Items     []MenuItem `json:"items"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

// MenuItem is one link in a menu. Children nest up to MaxMenuDepth levels.
type MenuItem struct {
	Label    string     `json:"label"`
	URL      string     `json:"url"`
	Target   string     `json:"target,omitempty"` // "_self" or "_blank"
	Children []MenuItem `json:"children,omitempty"`
}

// Constraints
const (
	MaxMenuNameLength  = 100
	MaxMenuItems       = 200
	MaxMenuDepth       = 3
	MaxMenuLabelLength = 100
)

var menuLocationPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,49}$`)

// CreateMenuRequest represents a request to create a menu
type CreateMenuRequest struct {
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Items    []MenuItem `json:"items,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateMenuRequest) Validate() []FieldError {
	var errors []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxMenuNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if r.Location == "" {
		errors = append(errors, FieldError{Field: "location", Message: "location is required"})
	} else if !menuLocationPattern.MatchString(r.Location) {
		errors = append(errors, FieldError{Field: "location", Message: "location must be lowercase letters, digits, '-' or '_'"})
	}
	errors = append(errors, validateMenuItems(r.Items)...)
	return errors
}

// UpdateMenuRequest represents a request to update a menu
type UpdateMenuRequest struct {
	Name     *string     `json:"name,omitempty"`
	Location *string     `json:"location,omitempty"`
	Items    *[]MenuItem `json:"items,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateMenuRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxMenuNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
		}
	}
	if r.Location != nil && !menuLocationPattern.MatchString(*r.Location) {
		errors = append(errors, FieldError{Field: "location", Message: "location must be lowercase letters, digits, '-' or '_'"})
	}
	if r.Items != nil {
		errors = append(errors, validateMenuItems(*r.Items)...)
	}
	return errors
}

func validateMenuItems(items []MenuItem) []FieldError {
	count := 0
	var walk func(items []MenuItem, depth int) []FieldError
	walk = func(items []MenuItem, depth int) []FieldError {
		if depth > MaxMenuDepth {
			return []FieldError{{Field: "items", Message: "menu items nest at most 3 levels deep"}}
		}
		for _, item := range items {
			count++
			if strings.TrimSpace(item.Label) == "" || len(item.Label) > MaxMenuLabelLength {
				return []FieldError{{Field: "items", Message: "every item needs a label of 100 characters or less"}}
			}
			if strings.TrimSpace(item.URL) == "" {
				return []FieldError{{Field: "items", Message: "every item needs a url"}}
			}
			if item.Target != "" && item.Target != "_self" && item.Target != "_blank" {
				return []FieldError{{Field: "items", Message: "target must be '_self' or '_blank'"}}
			}
			if errs := walk(item.Children, depth+1); len(errs) > 0 {
				return errs
			}
		}
		return nil
	}
	if errs := walk(items, 1); len(errs) > 0 {
		return errs
	}
	if count > MaxMenuItems {
		return []FieldError{{Field: "items", Message: "a menu holds at most 200 items"}}
	}
	return nil
}
