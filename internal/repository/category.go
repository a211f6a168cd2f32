package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// CategoryRepository handles category data access
type CategoryRepository struct {
	c collection
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db database.Database) *CategoryRepository {
	return &CategoryRepository{c: collection{
		db:       db,
		table:    model.TableCategory,
		sortable: []string{"title", "slug", "created_on", "updated_on"},
	}}
}

func categoryFields(c *model.Category) []field {
	return []field{
		{"title", c.Title},
		{"slug", c.Slug},
		{"description", c.Description},
		{"parent_id", c.ParentID},
	}
}

// Create inserts a category. A slug collision surfaces as database.ErrDuplicate.
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	fields := append(categoryFields(c), field{"author_id", c.AuthorID})
	created, err := getOf[model.Category](r.c.create(ctx, fields))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// Update writes every mutable field of c
func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	updated, err := getOf[model.Category](r.c.update(ctx, c.ID, categoryFields(c)))
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// GetByID retrieves a category by ID; nil when absent
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return getOf[model.Category](r.c.getByID(ctx, id))
}

// GetBySlug retrieves a category by slug; nil when absent
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return getOf[model.Category](r.c.getByField(ctx, "slug", slug))
}

// SlugTaken reports whether a category other than excludeID uses slug
func (r *CategoryRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.c.slugTaken(ctx, slug, excludeID)
}

// Children returns the categories whose parent is id
func (r *CategoryRepository) Children(ctx context.Context, id string) ([]*model.Category, error) {
	query := `SELECT * FROM category WHERE parent_id = $id ORDER BY title ASC`
	vars := map[string]interface{}{"id": id}

	results, err := r.c.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return decodeRecords[model.Category](results)
}

// DeleteIfLeaf removes the category only if no other category points at it.
// The check and the delete run in one transaction, so a child created
// concurrently either lands before the check or is rejected afterwards.
func (r *CategoryRepository) DeleteIfLeaf(ctx context.Context, id string) error {
	vars := map[string]interface{}{"id": id}

	tb := database.NewTxBuilder()
	tb.Add(`LET $children = (SELECT VALUE id FROM category WHERE parent_id = $id)`, vars)
	tb.AddRaw(`IF array::len($children) > 0 { THROW "` + model.ErrCategoryHasChildren.Error() + `" }`)
	tb.Add(`DELETE type::record($id)`, vars)

	if _, err := database.ExecuteTransaction(ctx, r.c.db, tb); err != nil {
		if strings.Contains(err.Error(), model.ErrCategoryHasChildren.Error()) {
			return model.ErrCategoryHasChildren
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// List returns one page of categories and the total match count
func (r *CategoryRepository) List(ctx context.Context, params model.ListParams) ([]*model.Category, int, error) {
	cond := newConditions()
	cond.add("author_id = $author_id", "author_id", params.Filter.AuthorID)
	cond.add("string::contains(string::lowercase(title), $q)", "q", strings.ToLower(strings.TrimSpace(params.Filter.Query)))
	parentCondition(cond, params.Filter.ParentID)
	return listOf[model.Category](ctx, r.c, params, cond)
}
