package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// PostRepository handles post data access
type PostRepository struct {
	c collection
}

// NewPostRepository creates a new post repository
func NewPostRepository(db database.Database) *PostRepository {
	return &PostRepository{c: collection{
		db:       db,
		table:    model.TablePost,
		sortable: []string{"title", "slug", "created_on", "updated_on", "published_on"},
	}}
}

func postFields(p *model.Post) []field {
	return []field{
		{"title", p.Title},
		{"slug", p.Slug},
		{"content", p.Content},
		{"content_html", p.ContentHTML},
		{"excerpt", p.Excerpt},
		{"status", string(p.Status)},
		{"category_ids", stringsOrEmpty(p.CategoryIDs)},
		{"tags", stringsOrEmpty(p.Tags)},
		{"featured_image", p.FeaturedImage},
		{"seo", seoDocument(p.SEO)},
		{"published_on", datetime(p.PublishedOn)},
	}
}

// Create inserts a post. A slug collision surfaces as database.ErrDuplicate.
func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	fields := append(postFields(p), field{"author_id", p.AuthorID})
	created, err := getOf[model.Post](r.c.create(ctx, fields))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// Update writes every mutable field of p
func (r *PostRepository) Update(ctx context.Context, p *model.Post) error {
	updated, err := getOf[model.Post](r.c.update(ctx, p.ID, postFields(p)))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// GetByID retrieves a post by ID; nil when absent
func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return getOf[model.Post](r.c.getByID(ctx, id))
}

// GetBySlug retrieves a post by slug; nil when absent
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return getOf[model.Post](r.c.getByField(ctx, "slug", slug))
}

// SlugTaken reports whether a post other than excludeID uses slug
func (r *PostRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.c.slugTaken(ctx, slug, excludeID)
}

// Delete removes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// List returns one page of posts and the total match count
func (r *PostRepository) List(ctx context.Context, params model.ListParams) ([]*model.Post, int, error) {
	cond := commonConditions(params.Filter)
	cond.add("category_ids CONTAINS $category_id", "category_id", params.Filter.CategoryID)
	cond.add("tags CONTAINS $tag", "tag", params.Filter.Tag)
	return listOf[model.Post](ctx, r.c, params, cond)
}
