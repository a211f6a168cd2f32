package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// ProductRepository handles product data access
type ProductRepository struct {
	c collection
}

// NewProductRepository creates a new product repository
func NewProductRepository(db database.Database) *ProductRepository {
	return &ProductRepository{c: collection{
		db:       db,
		table:    model.TableProduct,
		sortable: []string{"title", "slug", "price", "stock", "created_on", "updated_on"},
	}}
}

func productFields(p *model.Product) []field {
	return []field{
		{"title", p.Title},
		{"slug", p.Slug},
		{"description", p.Description},
		{"description_html", p.DescriptionHTML},
		{"status", string(p.Status)},
		{"price", p.Price},
		{"sale_price", p.SalePrice},
		{"currency", p.Currency},
		{"sku", p.SKU},
		{"stock", p.Stock},
		{"category_ids", stringsOrEmpty(p.CategoryIDs)},
		{"images", stringsOrEmpty(p.Images)},
		{"featured", p.Featured},
	}
}

// Create inserts a product. A slug collision surfaces as database.ErrDuplicate.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	fields := append(productFields(p), field{"author_id", p.AuthorID})
	created, err := getOf[model.Product](r.c.create(ctx, fields))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// Update writes every mutable field of p
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	updated, err := getOf[model.Product](r.c.update(ctx, p.ID, productFields(p)))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// GetByID retrieves a product by ID; nil when absent
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return getOf[model.Product](r.c.getByID(ctx, id))
}

// GetBySlug retrieves a product by slug; nil when absent
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return getOf[model.Product](r.c.getByField(ctx, "slug", slug))
}

// SlugTaken reports whether a product other than excludeID uses slug
func (r *ProductRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.c.slugTaken(ctx, slug, excludeID)
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// List returns one page of products and the total match count
func (r *ProductRepository) List(ctx context.Context, params model.ListParams) ([]*model.Product, int, error) {
	cond := commonConditions(params.Filter)
	cond.add("category_ids CONTAINS $category_id", "category_id", params.Filter.CategoryID)
	return listOf[model.Product](ctx, r.c, params, cond)
}
