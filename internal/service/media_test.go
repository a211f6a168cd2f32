package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestMediaService() (*MediaService, *memRepo[model.Media], *memStore) {
	repo := newMediaRepo()
	store := newMemStore()
	return NewMediaService(MediaServiceConfig{Repo: repo, Store: store, Now: testNow}), repo, store
}

func TestMediaService_Upload(t *testing.T) {
	t.Parallel()
	svc, _, store := newTestMediaService()

	media, err := svc.Upload(context.Background(), user1, Upload{
		Filename:    "Holiday Photo.PNG",
		ContentType: "application/octet-stream",
		Data:        pngHeader,
		AltText:     "beach",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, "Holiday Photo.PNG", media.OriginalName)
	assert.Equal(t, int64(len(pngHeader)), media.Size)
	assert.Equal(t, storage.Checksum(pngHeader), media.Checksum)
	assert.Equal(t, user1.ID, media.AuthorID)
	assert.Equal(t, model.StorageLocal, media.Storage)
	assert.True(t, strings.HasPrefix(media.StorageKey, "2024/06/"), media.StorageKey)
	assert.True(t, strings.HasSuffix(media.StorageKey, ".png"), media.StorageKey)
	assert.Equal(t, "/uploads/"+media.StorageKey, media.URL)
	assert.Contains(t, store.objects, media.StorageKey)
}

func TestMediaService_Upload_Rejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, _ := newTestMediaService()

	_, err := svc.Upload(ctx, nil, Upload{Filename: "a.png", Data: pngHeader})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Upload(ctx, user1, Upload{Filename: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyUpload)

	_, err = svc.Upload(ctx, user1, Upload{Filename: "run.sh", Data: []byte("\x7fELF\x02\x01\x01\x00")})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = svc.Upload(ctx, user1, Upload{Filename: "a.png", Data: pngHeader, AltText: strings.Repeat("x", model.MaxAltTextLength+1)})
	validationFields(t, err)

	assert.Equal(t, 0, repo.count())
}

func TestMediaService_Upload_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, repo, store := newTestMediaService()
	store.putErr = errors.New("disk full")

	_, err := svc.Upload(context.Background(), user1, Upload{Filename: "a.png", Data: pngHeader})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, repo.count())
}

func TestMediaService_DeleteOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, store := newTestMediaService()

	media, err := svc.Upload(ctx, user1, Upload{Filename: "notes.txt", Data: []byte("plain words")})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", media.MimeType)

	assert.ErrorIs(t, svc.Delete(ctx, user2, media.ID), ErrForbidden)
	assert.Contains(t, store.objects, media.StorageKey)

	require.NoError(t, svc.Delete(ctx, user1, media.ID))
	assert.NotContains(t, store.objects, media.StorageKey)
	assert.Equal(t, []string{media.StorageKey}, store.deleted)

	_, err = svc.GetByID(ctx, media.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMediaService_UpdateMetadata(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestMediaService()

	media, err := svc.Upload(ctx, user1, Upload{Filename: "a.png", Data: pngHeader})
	require.NoError(t, err)

	_, err = svc.Update(ctx, user2, media.ID, &model.UpdateMediaRequest{Caption: strPtr("mine now")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, adminID, media.ID, &model.UpdateMediaRequest{Caption: strPtr("sunset")})
	require.NoError(t, err)
	assert.Equal(t, "sunset", updated.Caption)
	assert.Equal(t, media.StorageKey, updated.StorageKey)
}

func TestDetectMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
	}{
		{"sniffed wins", pngHeader, "text/plain", "image/png"},
		{"declared used for opaque bytes", []byte{0x00, 0x01, 0x02}, "Application/PDF; q=1", "application/pdf"},
		{"opaque without declaration", []byte{0x00, 0x01, 0x02}, "", "application/octet-stream"},
		{"charset dropped", []byte("hello"), "", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMediaType(tt.data, tt.declared))
		})
	}
}

func TestMediaTypeAllowed(t *testing.T) {
	t.Parallel()

	assert.True(t, mediaTypeAllowed("image/png"))
	assert.True(t, mediaTypeAllowed("video/mp4"))
	assert.True(t, mediaTypeAllowed("application/pdf"))
	assert.False(t, mediaTypeAllowed("application/zip"))
	assert.False(t, mediaTypeAllowed("text/html"))
	assert.False(t, mediaTypeAllowed("image/svg+xml"))
}

func TestMediaService_Upload_ExtensionFollowsSniffedType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestMediaService()

	media, err := svc.Upload(ctx, user1, Upload{
		Filename:    "evil.html",
		ContentType: "text/html",
		Data:        []byte("hello <script>fetch('/v1/users/user:u1/role',{method:'PATCH'})</script>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", media.MimeType)
	assert.Equal(t, "evil.html", media.OriginalName)
	assert.True(t, strings.HasSuffix(media.StorageKey, ".txt"), media.StorageKey)
	assert.True(t, strings.HasSuffix(media.URL, ".txt"), media.URL)

	media, err = svc.Upload(ctx, user1, Upload{Filename: "photo.html", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(media.StorageKey, ".png"), media.StorageKey)

	_, err = svc.Upload(ctx, user1, Upload{Filename: "x.svg", ContentType: "image/svg+xml", Data: []byte("\x00<svg onload=alert(1)>")})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}
