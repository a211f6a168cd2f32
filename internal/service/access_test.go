package service

import (
	"errors"
	"testing"

	"github.com/forgo/folio/internal/model"
)

// ============================================================================
// Authorize Tests
// ============================================================================

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := &model.Identity{ID: "user:admin", Role: model.UserRoleAdmin}
	u1 := &model.Identity{ID: "user:u1", Role: model.UserRoleUser}

	tests := []struct {
		name     string
		identity *model.Identity
		class    ResourceClass
		action   Action
		authorID string
		want     error
	}{
		{"anonymous read", nil, AdminOnly, ActionRead, "", nil},
		{"anonymous create", nil, AuthorScoped, ActionCreate, "", ErrUnauthenticated},
		{"anonymous delete", nil, AdminOnly, ActionDelete, "user:u1", ErrUnauthenticated},
		{"user creates admin-only", u1, AdminOnly, ActionCreate, "", ErrForbidden},
		{"user updates own admin-only", u1, AdminOnly, ActionUpdate, "user:u1", ErrForbidden},
		{"admin creates admin-only", admin, AdminOnly, ActionCreate, "", nil},
		{"admin deletes admin-only", admin, AdminOnly, ActionDelete, "user:u1", nil},
		{"user creates author-scoped", u1, AuthorScoped, ActionCreate, "", nil},
		{"author deletes own", u1, AuthorScoped, ActionDelete, "user:u1", nil},
		{"author updates own", u1, AuthorScoped, ActionUpdate, "user:u1", nil},
		{"user deletes other's", u1, AuthorScoped, ActionDelete, "user:u2", ErrForbidden},
		{"user updates unowned", u1, AuthorScoped, ActionUpdate, "", ErrForbidden},
		{"admin deletes other's", admin, AuthorScoped, ActionDelete, "user:u2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Authorize(tt.identity, tt.class, tt.action, tt.authorID)
			if !errors.Is(err, tt.want) {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}
