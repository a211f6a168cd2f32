package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// PageRepository handles page data access
type PageRepository struct {
	c collection
}

// NewPageRepository creates a new page repository
func NewPageRepository(db database.Database) *PageRepository {
	return &PageRepository{c: collection{
		db:       db,
		table:    model.TablePage,
		sortable: []string{"title", "slug", "created_on", "updated_on", "published_on", "menu_order"},
	}}
}

func pageFields(p *model.Page) []field {
	return []field{
		{"title", p.Title},
		{"slug", p.Slug},
		{"content", p.Content},
		{"content_html", p.ContentHTML},
		{"excerpt", p.Excerpt},
		{"status", string(p.Status)},
		{"parent_id", p.ParentID},
		{"template", p.Template},
		{"menu_order", p.MenuOrder},
		{"seo", seoDocument(p.SEO)},
		{"featured_image", p.FeaturedImage},
		{"published_on", datetime(p.PublishedOn)},
	}
}

// Create inserts a page. A slug collision surfaces as database.ErrDuplicate.
func (r *PageRepository) Create(ctx context.Context, p *model.Page) error {
	fields := append(pageFields(p), field{"author_id", p.AuthorID})
	created, err := getOf[model.Page](r.c.create(ctx, fields))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// Update writes every mutable field of p. author_id is never rewritten.
func (r *PageRepository) Update(ctx context.Context, p *model.Page) error {
	updated, err := getOf[model.Page](r.c.update(ctx, p.ID, pageFields(p)))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// GetByID retrieves a page by ID; nil when absent
func (r *PageRepository) GetByID(ctx context.Context, id string) (*model.Page, error) {
	return getOf[model.Page](r.c.getByID(ctx, id))
}

// GetBySlug retrieves a page by slug; nil when absent
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return getOf[model.Page](r.c.getByField(ctx, "slug", slug))
}

// SlugTaken reports whether a page other than excludeID uses slug
func (r *PageRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.c.slugTaken(ctx, slug, excludeID)
}

// Delete removes a page
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// List returns one page of pages and the total match count
func (r *PageRepository) List(ctx context.Context, params model.ListParams) ([]*model.Page, int, error) {
	cond := commonConditions(params.Filter)
	parentCondition(cond, params.Filter.ParentID)
	return listOf[model.Page](ctx, r.c, params, cond)
}

func seoDocument(seo *model.SEO) interface{} {
	if seo == nil {
		return nil
	}
	return document(seo)
}
