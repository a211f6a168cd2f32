package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Children(ctx context.Context, id string) ([]*model.Category, error)
	// DeleteIfLeaf returns model.ErrCategoryHasChildren when a child appeared
	// after the service checked.
	DeleteIfLeaf(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Category, int, error)
}

// CategoryService handles category business logic
type CategoryService struct {
	repo CategoryRepository
}

// CategoryServiceConfig holds configuration for the category service
type CategoryServiceConfig struct {
	Repo CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(cfg CategoryServiceConfig) *CategoryService {
	return &CategoryService{repo: cfg.Repo}
}

// Create creates a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, identity *model.Identity, req *model.CreateCategoryRequest) (*model.Category, error) {
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

	parentID, err := checkParent(ctx, model.TableCategory, "", req.ParentID, s.parentOf)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Title:       title,
		Slug:        slug,
		Description: req.Description,
		ParentID:    parentID,
		AuthorID:    identity.ID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, storeErr("create category", err, ErrDuplicateSlug)
	}
	return category, nil
}

// Update applies the supplied fields to a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	category, err := fetch(ctx, model.TableCategory, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	currentTitle := category.Title
	if req.Title != nil {
		category.Title = strings.TrimSpace(*req.Title)
	}
	category.Slug, err = resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:         req.Slug,
		CustomSlug:   req.CustomSlug,
		Title:        category.Title,
		CurrentTitle: currentTitle,
		CurrentSlug:  category.Slug,
	}, category.ID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		category.ParentID, err = checkParent(ctx, model.TableCategory, category.ID, req.ParentID, s.parentOf)
		if err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, storeErr("update category", err, ErrDuplicateSlug)
	}
	return category, nil
}

// Delete deletes a category that has no child categories. Admin only.
// Posts and products that reference it keep the stale id.
func (s *CategoryService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if err := Authorize(identity, AdminOnly, ActionDelete, ""); err != nil {
		return err
	}
	category, err := fetch(ctx, model.TableCategory, id, s.repo.GetByID)
	if err != nil {
		return err
	}

	// A child added between the check and the delete makes DeleteIfLeaf
	// refuse; when that child is already gone again the delete is retried.
	for attempt := 0; attempt < deleteAttempts; attempt++ {
		if err := s.guardChildren(ctx, category.ID); err != nil {
			return err
		}
		err = s.repo.DeleteIfLeaf(ctx, category.ID)
		if !errors.Is(err, model.ErrCategoryHasChildren) {
			break
		}
	}
	if err != nil {
		return storeErr("delete category", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return fetch(ctx, model.TableCategory, id, s.repo.GetByID)
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return fetchBySlug(ctx, model.TableCategory, slug, s.repo.GetBySlug)
}

// List returns a page of categories
func (s *CategoryService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Category], error) {
	return list(ctx, model.TableCategory, params, s.repo.List)
}

// deleteAttempts bounds how often Delete retries a conditional delete that
// lost a race with child categories
const deleteAttempts = 3

// guardChildren returns a HasChildrenError listing the direct children of id
func (s *CategoryService) guardChildren(ctx context.Context, id string) error {
	children, err := s.repo.Children(ctx, id)
	if err != nil {
		return fmt.Errorf("list child categories: %w", err)
	}
	if len(children) == 0 {
		return nil
	}
	refs := make([]model.CategoryRef, 0, len(children))
	for _, c := range children {
		refs = append(refs, c.Ref())
	}
	return &HasChildrenError{Children: refs}
}

func (s *CategoryService) parentOf(ctx context.Context, id string) (*string, bool, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, false, nil
	}
	return c.ParentID, true, nil
}
