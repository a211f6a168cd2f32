package service

import "github.com/forgo/folio/internal/model"

// ResourceClass groups resources by who may change them
type ResourceClass int

const (
	// AdminOnly resources are written by admins only: pages, posts,
	// products, categories, menus, site settings and user roles.
	AdminOnly ResourceClass = iota
	// AuthorScoped resources may be created by any identity and changed by
	// their author or an admin: content entries and media.
	AuthorScoped
)

// Action is what a caller wants to do with a resource
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Authorize is the single ownership and role gate. authorID is the stored
// author of the target and is ignored for reads, creates and admin-only classes.
func Authorize(identity *model.Identity, class ResourceClass, action Action, authorID string) error {
	if action == ActionRead {
		return nil
	}
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.IsAdmin() {
		return nil
	}

	switch class {
	case AuthorScoped:
		if action == ActionCreate {
			return nil
		}
		if authorID != "" && identity.ID == authorID {
			return nil
		}
	}
	return ErrForbidden
}
