package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// MenuRepository handles menu data access
type MenuRepository struct {
	c collection
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db database.Database) *MenuRepository {
	return &MenuRepository{c: collection{
		db:       db,
		table:    model.TableMenu,
		sortable: []string{"name", "location", "created_on", "updated_on"},
	}}
}

func menuFields(m *model.Menu) []field {
	items := m.Items
	if items == nil {
		items = []model.MenuItem{}
	}
	return []field{
		{"name", m.Name},
		{"location", m.Location},
		{"items", document(items)},
	}
}

// Create inserts a menu. A location collision surfaces as database.ErrDuplicate.
func (r *MenuRepository) Create(ctx context.Context, m *model.Menu) error {
	created, err := getOf[model.Menu](r.c.create(ctx, menuFields(m)))
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// Update writes every mutable field of m
func (r *MenuRepository) Update(ctx context.Context, m *model.Menu) error {
	updated, err := getOf[model.Menu](r.c.update(ctx, m.ID, menuFields(m)))
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

// GetByID retrieves a menu by ID; nil when absent
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*model.Menu, error) {
	return getOf[model.Menu](r.c.getByID(ctx, id))
}

// GetByLocation retrieves the menu bound to location; nil when absent
func (r *MenuRepository) GetByLocation(ctx context.Context, location string) (*model.Menu, error) {
	return getOf[model.Menu](r.c.getByField(ctx, "location", location))
}

// LocationTaken reports whether a menu other than excludeID is bound to location
func (r *MenuRepository) LocationTaken(ctx context.Context, location, excludeID string) (bool, error) {
	return r.c.valueTaken(ctx, "location", location, excludeID)
}

// Delete removes a menu
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// List returns one page of menus and the total match count
func (r *MenuRepository) List(ctx context.Context, params model.ListParams) ([]*model.Menu, int, error) {
	cond := newConditions()
	cond.add("location = $location", "location", params.Filter.Location)
	return listOf[model.Menu](ctx, r.c, params, cond)
}
