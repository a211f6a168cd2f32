package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	c collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{c: collection{
		db:       db,
		table:    model.TableUser,
		sortable: []string{"email", "name", "role", "created_on"},
	}}
}

// Create creates a new user. A taken email surfaces as database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}

	fields := []field{
		{"email", strings.ToLower(user.Email)},
		{"name", user.Name},
		{"hash", user.Hash},
		{"role", string(role)},
	}
	raw, err := r.c.create(ctx, fields)
	if err != nil {
		return err
	}
	created, err := parseUser(raw)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

// GetByID retrieves a user by ID; nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	raw, err := r.c.getByID(ctx, id)
	if err != nil || raw == nil {
		return nil, err
	}
	return parseUser(raw)
}

// GetByEmail retrieves a user by email; nil when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	raw, err := r.c.getByField(ctx, "email", strings.ToLower(email))
	if err != nil || raw == nil {
		return nil, err
	}
	return parseUser(raw)
}

// Count returns the number of registered users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	results, err := r.c.db.Query(ctx, `SELECT count() AS count FROM user GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return extractCount(results, 0), nil
}

// SetRole updates a user's role
func (r *UserRepository) SetRole(ctx context.Context, userID string, role model.UserRole) error {
	query := `UPDATE type::record($id) SET role = $role, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"role": string(role),
	}
	return r.c.db.Execute(ctx, query, vars)
}

// TouchLogin records a successful login
func (r *UserRepository) TouchLogin(ctx context.Context, userID string) error {
	query := `UPDATE type::record($id) SET login_on = time::now()`
	vars := map[string]interface{}{"id": userID}
	return r.c.db.Execute(ctx, query, vars)
}

// List returns one page of users and the total match count
func (r *UserRepository) List(ctx context.Context, params model.ListParams) ([]*model.User, int, error) {
	cond := newConditions()
	cond.add("string::contains(email, $q)", "q", strings.ToLower(strings.TrimSpace(params.Filter.Query)))
	rows, total, err := r.c.list(ctx, params, cond)
	if err != nil {
		return nil, 0, err
	}
	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		u, err := parseUser(row)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// parseUser decodes a user record. The hash is carried over by hand because
// model.User never serializes it.
func parseUser(raw interface{}) (*model.User, error) {
	user, err := decodeRecord[model.User](raw)
	if err != nil {
		return nil, err
	}
	if data, ok := raw.(map[string]interface{}); ok {
		if h, ok := data["hash"].(string); ok {
			user.Hash = &h
		}
	}
	return user, nil
}
