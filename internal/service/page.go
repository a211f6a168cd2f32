package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/folio/internal/model"
)

// PageRepository defines the interface for page storage
type PageRepository interface {
	Create(ctx context.Context, page *model.Page) error
	Update(ctx context.Context, page *model.Page) error
	GetByID(ctx context.Context, id string) (*model.Page, error)
	GetBySlug(ctx context.Context, slug string) (*model.Page, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Page, int, error)
}

// PageService handles page business logic
type PageService struct {
	repo     PageRepository
	renderer Renderer
	now      func() time.Time
}

// PageServiceConfig holds configuration for the page service
type PageServiceConfig struct {
	Repo     PageRepository
	Renderer Renderer
	Now      func() time.Time
}

// NewPageService creates a new page service
func NewPageService(cfg PageServiceConfig) *PageService {
	return &PageService{
		repo:     cfg.Repo,
		renderer: cfg.Renderer,
		now:      clock(cfg.Now),
	}
}

// Create creates a page. Admin only.
func (s *PageService) Create(ctx context.Context, identity *model.Identity, req *model.CreatePageRequest) (*model.Page, error) {
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

	parentID, err := checkParent(ctx, model.TablePage, "", req.ParentID, s.parentOf)
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.HTML(req.Content)
	if err != nil {
		return nil, err
	}

	status := statusOr(req.Status, model.StatusDraft)
	page := &model.Page{
		Title:         title,
		Slug:          slug,
		Content:       req.Content,
		ContentHTML:   html,
		Excerpt:       req.Excerpt,
		Status:        status,
		ParentID:      parentID,
		Template:      req.Template,
		MenuOrder:     req.MenuOrder,
		SEO:           req.SEO,
		FeaturedImage: normalizeRef(model.TableMedia, req.FeaturedImage),
		AuthorID:      identity.ID,
		PublishedOn:   model.StampPublished(status, nil, s.now()),
	}

	if err := s.repo.Create(ctx, page); err != nil {
		return nil, storeErr("create page", err, ErrDuplicateSlug)
	}
	return page, nil
}

// Update applies the supplied fields to a page. Admin only.
func (s *PageService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdatePageRequest) (*model.Page, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	page, err := fetch(ctx, model.TablePage, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	currentTitle := page.Title
	if req.Title != nil {
		page.Title = strings.TrimSpace(*req.Title)
	}
	page.Slug, err = resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:         req.Slug,
		CustomSlug:   req.CustomSlug,
		Title:        page.Title,
		CurrentTitle: currentTitle,
		CurrentSlug:  page.Slug,
	}, page.ID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		page.ParentID, err = checkParent(ctx, model.TablePage, page.ID, req.ParentID, s.parentOf)
		if err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		page.Content = *req.Content
		if page.ContentHTML, err = s.renderer.HTML(page.Content); err != nil {
			return nil, err
		}
	}
	if req.Excerpt != nil {
		page.Excerpt = *req.Excerpt
	}
	if req.Template != nil {
		page.Template = *req.Template
	}
	if req.MenuOrder != nil {
		page.MenuOrder = *req.MenuOrder
	}
	if req.SEO != nil {
		page.SEO = req.SEO
	}
	if req.FeaturedImage != nil {
		page.FeaturedImage = normalizeRef(model.TableMedia, req.FeaturedImage)
	}
	page.Status = statusOr(req.Status, page.Status)
	page.PublishedOn = model.StampPublished(page.Status, page.PublishedOn, s.now())

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, storeErr("update page", err, ErrDuplicateSlug)
	}
	return page, nil
}

// Delete deletes a page. Admin only. Child pages keep a dangling parent_id.
func (s *PageService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if err := Authorize(identity, AdminOnly, ActionDelete, ""); err != nil {
		return err
	}
	page, err := fetch(ctx, model.TablePage, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, page.ID); err != nil {
		return storeErr("delete page", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a page by ID
func (s *PageService) GetByID(ctx context.Context, id string) (*model.Page, error) {
	return fetch(ctx, model.TablePage, id, s.repo.GetByID)
}

// GetBySlug retrieves a page by slug
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return fetchBySlug(ctx, model.TablePage, slug, s.repo.GetBySlug)
}

// List returns a page of pages
func (s *PageService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Page], error) {
	return list(ctx, model.TablePage, params, s.repo.List)
}

func (s *PageService) parentOf(ctx context.Context, id string) (*string, bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get page: %w", err)
	}
	if p == nil {
		return nil, false, nil
	}
	return p.ParentID, true, nil
}
