package service

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/storage"
)

// MediaRepository defines the interface for media metadata storage
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	UpdateMetadata(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, id string) (*model.Media, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Media, int, error)
}

// MediaStore persists media bytes
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (storage.Object, error)
	Delete(ctx context.Context, kind model.StorageKind, key string) error
}

// allowedMediaTypes lists accepted MIME types; a trailing "/" matches the family
var allowedMediaTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/pdf",
	"text/plain",
}

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string // as declared by the client; the sniffed type wins
	Data        []byte
	AltText     string
	Caption     string
}

// MediaService handles uploads and media metadata
type MediaService struct {
	repo  MediaRepository
	store MediaStore
	now   func() time.Time
}

// MediaServiceConfig holds configuration for the media service
type MediaServiceConfig struct {
	Repo  MediaRepository
	Store MediaStore
	Now   func() time.Time
}

// NewMediaService creates a new media service
func NewMediaService(cfg MediaServiceConfig) *MediaService {
	return &MediaService{
		repo:  cfg.Repo,
		store: cfg.Store,
		now:   clock(cfg.Now),
	}
}

// Upload stores the file bytes and records its metadata. Any signed-in
// user may upload; the uploader becomes the author.
func (s *MediaService) Upload(ctx context.Context, identity *model.Identity, up Upload) (*model.Media, error) {
	if err := Authorize(identity, AuthorScoped, ActionCreate, ""); err != nil {
		return nil, err
	}
	if len(up.Data) == 0 {
		return nil, ErrEmptyUpload
	}
	meta := model.UpdateMediaRequest{AltText: &up.AltText, Caption: &up.Caption}
	if err := invalid(meta.Validate()); err != nil {
		return nil, err
	}

	mimeType := detectMediaType(up.Data, up.ContentType)
	if !mediaTypeAllowed(mimeType) {
		return nil, ErrUnsupportedMedia
	}

	original := filepath.Base(strings.ReplaceAll(up.Filename, `\`, "/"))
	if original == "." || original == "/" {
		original = ""
	}
	key := storage.NewKey(mimeType, s.now())

	obj, err := s.store.Put(ctx, key, mimeType, up.Data)
	if err != nil {
		return nil, storeErr("store media", err, ErrNotFound)
	}

	media := &model.Media{
		Filename:     filepath.Base(obj.Key),
		OriginalName: original,
		MimeType:     mimeType,
		Size:         int64(len(up.Data)),
		Checksum:     storage.Checksum(up.Data),
		URL:          obj.URL,
		Storage:      obj.Storage,
		StorageKey:   obj.Key,
		AltText:      up.AltText,
		Caption:      up.Caption,
		AuthorID:     identity.ID,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		// Do not leave orphaned bytes behind
		if delErr := s.store.Delete(ctx, obj.Storage, obj.Key); delErr != nil {
			slog.Warn("failed to remove orphaned media object",
				slog.String("key", obj.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, storeErr("create media", err, ErrNotFound)
	}
	return media, nil
}

// Update changes alt text and caption. Allowed to the uploader or an admin.
func (s *MediaService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdateMediaRequest) (*model.Media, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	media, err := fetch(ctx, model.TableMedia, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(identity, AuthorScoped, ActionUpdate, media.AuthorID); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	if req.AltText != nil {
		media.AltText = *req.AltText
	}
	if req.Caption != nil {
		media.Caption = *req.Caption
	}
	if err := s.repo.UpdateMetadata(ctx, media); err != nil {
		return nil, storeErr("update media", err, ErrNotFound)
	}
	return media, nil
}

// Delete removes the record and then the stored bytes. Allowed to the
// uploader or an admin. A failure removing the bytes is logged, not returned.
func (s *MediaService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	media, err := fetch(ctx, model.TableMedia, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := Authorize(identity, AuthorScoped, ActionDelete, media.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, media.ID); err != nil {
		return storeErr("delete media", err, ErrNotFound)
	}
	if media.StorageKey != "" {
		if err := s.store.Delete(ctx, media.Storage, media.StorageKey); err != nil {
			slog.Warn("failed to delete media object",
				slog.String("media_id", media.ID),
				slog.String("storage", string(media.Storage)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// GetByID retrieves media metadata by ID
func (s *MediaService) GetByID(ctx context.Context, id string) (*model.Media, error) {
	return fetch(ctx, model.TableMedia, id, s.repo.GetByID)
}

// List returns a page of media
func (s *MediaService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Media], error) {
	return list(ctx, model.TableMedia, params, s.repo.List)
}

// detectMediaType sniffs data and falls back to the declared type when
// sniffing only finds a generic type
func detectMediaType(data []byte, declared string) string {
	sniffed := http.DetectContentType(data)
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}
	if sniffed == "application/octet-stream" && declared != "" {
		if i := strings.Index(declared, ";"); i >= 0 {
			declared = declared[:i]
		}
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return sniffed
}

func mediaTypeAllowed(mimeType string) bool {
	// XML types such as image/svg+xml can carry script
	if strings.HasSuffix(mimeType, "+xml") {
		return false
	}
	for _, allowed := range allowedMediaTypes {
		if strings.HasSuffix(allowed, "/") && strings.HasPrefix(mimeType, allowed) {
			return true
		}
		if mimeType == allowed {
			return true
		}
	}
	return false
}
