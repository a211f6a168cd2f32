package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/folio/internal/model"
)

// ContentRepository defines the interface for content storage
type ContentRepository interface {
	Create(ctx context.Context, content *model.Content) error
	Update(ctx context.Context, content *model.Content) error
	GetByID(ctx context.Context, id string) (*model.Content, error)
	GetBySlug(ctx context.Context, slug string) (*model.Content, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Content, int, error)
}

// ContentService handles content entry business logic. Entries are owned by
// their author; any signed-in user may create one.
type ContentService struct {
	repo     ContentRepository
	users    AuthorLookup
	renderer Renderer
	now      func() time.Time
}

// ContentServiceConfig holds configuration for the content service
type ContentServiceConfig struct {
	Repo     ContentRepository
	Users    AuthorLookup
	Renderer Renderer
	Now      func() time.Time
}

// NewContentService creates a new content service
func NewContentService(cfg ContentServiceConfig) *ContentService {
	return &ContentService{
		repo:     cfg.Repo,
		users:    cfg.Users,
		renderer: cfg.Renderer,
		now:      clock(cfg.Now),
	}
}

// Create creates a content entry owned by identity
func (s *ContentService) Create(ctx context.Context, identity *model.Identity, req *model.CreateContentRequest) (*model.Content, error) {
	if err := Authorize(identity, AuthorScoped, ActionCreate, ""); err != nil {
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

	parentID, err := checkParent(ctx, model.TableContent, "", req.ParentID, s.parentOf)
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.HTML(req.Body)
	if err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = model.DefaultContentType
	}
	status := statusOr(req.Status, model.StatusDraft)

	content := &model.Content{
		Title:       title,
		Slug:        slug,
		Body:        req.Body,
		BodyHTML:    html,
		ContentType: contentType,
		Status:      status,
		ParentID:    parentID,
		Metadata:    req.Metadata,
		AuthorID:    identity.ID,
		PublishedOn: model.StampPublished(status, nil, s.now()),
	}

	if err := s.repo.Create(ctx, content); err != nil {
		return nil, storeErr("create content", err, ErrDuplicateSlug)
	}
	content.Author = populateAuthor(ctx, s.users, content.AuthorID)
	return content, nil
}

// Update applies the supplied fields. Allowed to the author or an admin.
func (s *ContentService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdateContentRequest) (*model.Content, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	content, err := fetch(ctx, model.TableContent, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(identity, AuthorScoped, ActionUpdate, content.AuthorID); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	currentTitle := content.Title
	if req.Title != nil {
		content.Title = strings.TrimSpace(*req.Title)
	}
	content.Slug, err = resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:         req.Slug,
		CustomSlug:   req.CustomSlug,
		Title:        content.Title,
		CurrentTitle: currentTitle,
		CurrentSlug:  content.Slug,
	}, content.ID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		content.ParentID, err = checkParent(ctx, model.TableContent, content.ID, req.ParentID, s.parentOf)
		if err != nil {
			return nil, err
		}
	}
	if req.Body != nil {
		content.Body = *req.Body
		if content.BodyHTML, err = s.renderer.HTML(content.Body); err != nil {
			return nil, err
		}
	}
	if req.ContentType != nil {
		content.ContentType = *req.ContentType
	}
	if req.Metadata != nil {
		content.Metadata = *req.Metadata
	}
	content.Status = statusOr(req.Status, content.Status)
	content.PublishedOn = model.StampPublished(content.Status, content.PublishedOn, s.now())

	if err := s.repo.Update(ctx, content); err != nil {
		return nil, storeErr("update content", err, ErrDuplicateSlug)
	}
	content.Author = populateAuthor(ctx, s.users, content.AuthorID)
	return content, nil
}

// Delete deletes a content entry. Allowed to the author or an admin.
func (s *ContentService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	content, err := fetch(ctx, model.TableContent, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := Authorize(identity, AuthorScoped, ActionDelete, content.AuthorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, content.ID); err != nil {
		return storeErr("delete content", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a content entry by ID with its author populated
func (s *ContentService) GetByID(ctx context.Context, id string) (*model.Content, error) {
	content, err := fetch(ctx, model.TableContent, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	content.Author = populateAuthor(ctx, s.users, content.AuthorID)
	return content, nil
}

// GetBySlug retrieves a content entry by slug with its author populated
func (s *ContentService) GetBySlug(ctx context.Context, slug string) (*model.Content, error) {
	content, err := fetchBySlug(ctx, model.TableContent, slug, s.repo.GetBySlug)
	if err != nil {
		return nil, err
	}
	content.Author = populateAuthor(ctx, s.users, content.AuthorID)
	return content, nil
}

// List returns a page of content entries
func (s *ContentService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Content], error) {
	return list(ctx, model.TableContent, params, s.repo.List)
}

func (s *ContentService) parentOf(ctx context.Context, id string) (*string, bool, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get content: %w", err)
	}
	if c == nil {
		return nil, false, nil
	}
	return c.ParentID, true, nil
}
