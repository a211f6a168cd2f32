package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// ContentRepository handles generic content entry data access
type ContentRepository struct {
	c collection
}

// NewContentRepository creates a new content repository
func NewContentRepository(db database.Database) *ContentRepository {
	return &ContentRepository{c: collection{
		db:       db,
		table:    model.TableContent,
		sortable: []string{"title", "slug", "content_type", "created_on", "updated_on", "published_on"},
	}}
}

func contentFields(c *model.Content) []field {
	var metadata interface{}
	if len(c.Metadata) > 0 {
		metadata = c.Metadata
	}
	return []field{
		{"title", c.Title},
		{"slug", c.Slug},
		{"body", c.Body},
		{"body_html", c.BodyHTML},
		{"content_type", c.ContentType},
		{"status", string(c.Status)},
		{"parent_id", c.ParentID},
		{"metadata", metadata},
		{"published_on", datetime(c.PublishedOn)},
	}
}

// Create inserts a content entry. A slug collision surfaces as database.ErrDuplicate.
func (r *ContentRepository) Create(ctx context.Context, c *model.Content) error {
	fields := append(contentFields(c), field{"author_id", c.AuthorID})
	created, err := getOf[model.Content](r.c.create(ctx, fields))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// Update writes every mutable field of c
func (r *ContentRepository) Update(ctx context.Context, c *model.Content) error {
	updated, err := getOf[model.Content](r.c.update(ctx, c.ID, contentFields(c)))
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// GetByID retrieves a content entry by ID; nil when absent
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*model.Content, error) {
	return getOf[model.Content](r.c.getByID(ctx, id))
}

// GetBySlug retrieves a content entry by slug; nil when absent
func (r *ContentRepository) GetBySlug(ctx context.Context, slug string) (*model.Content, error) {
	return getOf[model.Content](r.c.getByField(ctx, "slug", slug))
}

// SlugTaken reports whether an entry other than excludeID uses slug
func (r *ContentRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.c.slugTaken(ctx, slug, excludeID)
}

// Delete removes a content entry
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// List returns one page of content entries and the total match count
func (r *ContentRepository) List(ctx context.Context, params model.ListParams) ([]*model.Content, int, error) {
	cond := commonConditions(params.Filter)
	cond.add("content_type = $content_type", "content_type", params.Filter.ContentType)
	parentCondition(cond, params.Filter.ParentID)
	return listOf[model.Content](ctx, r.c, params, cond)
}
