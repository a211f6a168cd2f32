package service

import (
	"context"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// ProductRepository defines the interface for product storage
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Product, int, error)
}

// ProductService handles product business logic
type ProductService struct {
	repo     ProductRepository
	renderer Renderer
}

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	Repo     ProductRepository
	Renderer Renderer
}

// NewProductService creates a new product service
func NewProductService(cfg ProductServiceConfig) *ProductService {
	return &ProductService{
		repo:     cfg.Repo,
		renderer: cfg.Renderer,
	}
}

// Create creates a product. Admin only.
func (s *ProductService) Create(ctx context.Context, identity *model.Identity, req *model.CreateProductRequest) (*model.Product, error) {
	if err := Authorize(identity, AdminOnly, ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	slug, err := resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:       req.Slug,
		CustomSlug: req.CustomSlug,
		Title:      title,
		Creating:   true,
	}, "")
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.HTML(req.Description)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	product := &model.Product{
		Title:           title,
		Slug:            slug,
		Description:     req.Description,
		DescriptionHTML: html,
		Status:          statusOr(req.Status, model.StatusDraft),
		Price:           req.Price,
		SalePrice:       req.SalePrice,
		Currency:        currency,
		SKU:             strings.TrimSpace(req.SKU),
		Stock:           req.Stock,
		CategoryIDs:     normalizeRefs(model.TableCategory, req.CategoryIDs),
		Images:          normalizeRefs(model.TableMedia, req.Images),
		Featured:        req.Featured,
		AuthorID:        identity.ID,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, storeErr("create product", err, ErrDuplicateSlug)
	}
	return product, nil
}

// Update applies the supplied fields to a product. Admin only.
func (s *ProductService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	product, err := fetch(ctx, model.TableProduct, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	// The sale price is checked against the price the product ends up with
	if req.Price != nil && req.SalePrice == nil && product.SalePrice != nil && *product.SalePrice > *req.Price {
		return nil, invalidField("sale_price", "sale_price cannot exceed price")
	}
	if req.SalePrice != nil && req.Price == nil && *req.SalePrice > product.Price {
		return nil, invalidField("sale_price", "sale_price cannot exceed price")
	}

	currentTitle := product.Title
	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	product.Slug, err = resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:         req.Slug,
		CustomSlug:   req.CustomSlug,
		Title:        product.Title,
		CurrentTitle: currentTitle,
		CurrentSlug:  product.Slug,
	}, product.ID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		product.Description = *req.Description
		if product.DescriptionHTML, err = s.renderer.HTML(product.Description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		product.SalePrice = req.SalePrice
	}
	if req.Currency != nil {
		product.Currency = *req.Currency
	}
	if req.SKU != nil {
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.CategoryIDs != nil {
		product.CategoryIDs = normalizeRefs(model.TableCategory, *req.CategoryIDs)
	}
	if req.Images != nil {
		product.Images = normalizeRefs(model.TableMedia, *req.Images)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	product.Status = statusOr(req.Status, product.Status)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, storeErr("update product", err, ErrDuplicateSlug)
	}
	return product, nil
}

// Delete deletes a product. Admin only.
func (s *ProductService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if err := Authorize(identity, AdminOnly, ActionDelete, ""); err != nil {
		return err
	}
	product, err := fetch(ctx, model.TableProduct, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return storeErr("delete product", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return fetch(ctx, model.TableProduct, id, s.repo.GetByID)
}

// GetBySlug retrieves a product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return fetchBySlug(ctx, model.TableProduct, slug, s.repo.GetBySlug)
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Product], error) {
	return list(ctx, model.TableProduct, params, s.repo.List)
}
