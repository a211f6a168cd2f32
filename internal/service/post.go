package service

import (
	"context"
	"strings"
	"time"

	"github.com/forgo/folio/internal/model"
)

// PostRepository defines the interface for post storage
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Post, int, error)
}

// PostService handles post business logic
type PostService struct {
	repo     PostRepository
	users    AuthorLookup
	renderer Renderer
	now      func() time.Time
}

// PostServiceConfig holds configuration for the post service
type PostServiceConfig struct {
	Repo     PostRepository
	Users    AuthorLookup
	Renderer Renderer
	Now      func() time.Time
}

// NewPostService creates a new post service
func NewPostService(cfg PostServiceConfig) *PostService {
	return &PostService{
		repo:     cfg.Repo,
		users:    cfg.Users,
		renderer: cfg.Renderer,
		now:      clock(cfg.Now),
	}
}

// Create creates a post. Admin only.
func (s *PostService) Create(ctx context.Context, identity *model.Identity, req *model.CreatePostRequest) (*model.Post, error) {
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

	html, err := s.renderer.HTML(req.Content)
	if err != nil {
		return nil, err
	}

	status := statusOr(req.Status, model.StatusDraft)
	post := &model.Post{
		Title:         title,
		Slug:          slug,
		Content:       req.Content,
		ContentHTML:   html,
		Excerpt:       req.Excerpt,
		Status:        status,
		CategoryIDs:   normalizeRefs(model.TableCategory, req.CategoryIDs),
		Tags:          cleanTags(req.Tags),
		FeaturedImage: normalizeRef(model.TableMedia, req.FeaturedImage),
		SEO:           req.SEO,
		AuthorID:      identity.ID,
		PublishedOn:   model.StampPublished(status, nil, s.now()),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, storeErr("create post", err, ErrDuplicateSlug)
	}
	post.Author = populateAuthor(ctx, s.users, post.AuthorID)
	return post, nil
}

// Update applies the supplied fields to a post. Admin only.
func (s *PostService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdatePostRequest) (*model.Post, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	post, err := fetch(ctx, model.TablePost, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	currentTitle := post.Title
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	post.Slug, err = resolveSlug(ctx, s.repo, model.SlugInput{
		Slug:         req.Slug,
		CustomSlug:   req.CustomSlug,
		Title:        post.Title,
		CurrentTitle: currentTitle,
		CurrentSlug:  post.Slug,
	}, post.ID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		post.Content = *req.Content
		if post.ContentHTML, err = s.renderer.HTML(post.Content); err != nil {
			return nil, err
		}
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.CategoryIDs != nil {
		post.CategoryIDs = normalizeRefs(model.TableCategory, *req.CategoryIDs)
	}
	if req.Tags != nil {
		post.Tags = cleanTags(*req.Tags)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = normalizeRef(model.TableMedia, req.FeaturedImage)
	}
	if req.SEO != nil {
		post.SEO = req.SEO
	}
	post.Status = statusOr(req.Status, post.Status)
	post.PublishedOn = model.StampPublished(post.Status, post.PublishedOn, s.now())

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, storeErr("update post", err, ErrDuplicateSlug)
	}
	post.Author = populateAuthor(ctx, s.users, post.AuthorID)
	return post, nil
}

// Delete deletes a post. Admin only.
func (s *PostService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if err := Authorize(identity, AdminOnly, ActionDelete, ""); err != nil {
		return err
	}
	post, err := fetch(ctx, model.TablePost, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return storeErr("delete post", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a post by ID with its author populated
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := fetch(ctx, model.TablePost, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	post.Author = populateAuthor(ctx, s.users, post.AuthorID)
	return post, nil
}

// GetBySlug retrieves a post by slug with its author populated
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := fetchBySlug(ctx, model.TablePost, slug, s.repo.GetBySlug)
	if err != nil {
		return nil, err
	}
	post.Author = populateAuthor(ctx, s.users, post.AuthorID)
	return post, nil
}

// List returns a page of posts
func (s *PostService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Post], error) {
	return list(ctx, model.TablePost, params, s.repo.List)
}

// cleanTags trims tags and drops repeats, keeping first-seen order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
