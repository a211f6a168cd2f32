package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
	"github.com/forgo/folio/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type memMedia struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*model.Media
}

func (m *memMedia) Create(_ context.Context, media *model.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	media.ID = fmt.Sprintf("media:m%d", m.seq)
	c := *media
	m.rows[media.ID] = &c
	return nil
}

func (m *memMedia) UpdateMetadata(_ context.Context, media *model.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *media
	m.rows[media.ID] = &c
	return nil
}

func (m *memMedia) GetByID(_ context.Context, id string) (*model.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		c := *row
		return &c, nil
	}
	return nil, nil
}

func (m *memMedia) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memMedia) List(_ context.Context, _ model.ListParams) ([]*model.Media, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return nil, len(m.rows), nil
}

type discardStore struct{}

func (discardStore) Put(_ context.Context, key, _ string, _ []byte) (storage.Object, error) {
	return storage.Object{Storage: model.StorageLocal, Key: key, URL: "/uploads/" + key}, nil
}

func (discardStore) Delete(context.Context, model.StorageKind, string) error { return nil }

func newTestMediaHandler(maxBytes int64) (*MediaHandler, *memMedia) {
	repo := &memMedia{rows: map[string]*model.Media{}}
	svc := service.NewMediaService(service.MediaServiceConfig{Repo: repo, Store: discardStore{}})
	return NewMediaHandler(svc, maxBytes), repo
}

func multipartUpload(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(body *bytes.Buffer, contentType string, identity *model.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

// ============================================================================
// Tests
// ============================================================================

func TestMediaHandler_Upload(t *testing.T) {
	t.Parallel()
	h, repo := newTestMediaHandler(1024)

	body, ct := multipartUpload(t, "notes.txt", []byte("hello there"), map[string]string{"alt_text": "notes", "caption": "my notes"})
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(body, ct, testUser))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	media := decodeData[model.Media](t, rec)
	assert.Equal(t, "notes.txt", media.OriginalName)
	assert.Equal(t, "text/plain", media.MimeType)
	assert.Equal(t, "notes", media.AltText)
	assert.Equal(t, "my notes", media.Caption)
	assert.Equal(t, testUser.ID, media.AuthorID)
	assert.Len(t, repo.rows, 1)
}

func TestMediaHandler_UploadedHTMLServedInert(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	repo := &memMedia{rows: map[string]*model.Media{}}
	h := NewMediaHandler(service.NewMediaService(service.MediaServiceConfig{Repo: repo, Store: store}), 1024)

	payload := []byte(`hello <script>fetch('/v1/users/user:u1/role',{method:'PATCH'})</script>`)
	body, ct := multipartUpload(t, "evil.html", payload, nil)
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(body, ct, testUser))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	media := decodeData[model.Media](t, rec)
	assert.Equal(t, "evil.html", media.OriginalName)
	assert.Equal(t, "text/plain", media.MimeType)
	assert.True(t, strings.HasSuffix(media.URL, ".txt"), media.URL)

	rec = httptest.NewRecorder()
	uploadsHandler(dir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, media.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"), rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "sandbox")
	assert.Equal(t, "attachment", rec.Header().Get("Content-Disposition"))
}

func TestMediaHandler_UploadTooLarge(t *testing.T) {
	t.Parallel()
	h, repo := newTestMediaHandler(16)

	body, ct := multipartUpload(t, "big.txt", bytes.Repeat([]byte("a"), 64), nil)
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(body, ct, testUser))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, model.ErrCodeTooLarge, decodeProblem(t, rec).Code)
	assert.Empty(t, repo.rows)
}

func TestMediaHandler_UploadBadRequests(t *testing.T) {
	t.Parallel()
	h, _ := newTestMediaHandler(1024)

	// Not multipart
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(bytes.NewBufferString(`{"file":"x"}`), "application/json", testUser))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Multipart without a file part
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("caption", "orphan"))
	require.NoError(t, mw.Close())
	rec = httptest.NewRecorder()
	h.Upload(rec, uploadRequest(&buf, mw.FormDataContentType(), testUser))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Disallowed type
	body, ct := multipartUpload(t, "page.html", []byte("<html><body>hi</body></html>"), nil)
	rec = httptest.NewRecorder()
	h.Upload(rec, uploadRequest(body, ct, testUser))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidInput, decodeProblem(t, rec).Code)
}

func TestNewMediaHandler_DefaultLimit(t *testing.T) {
	t.Parallel()
	h := NewMediaHandler(nil, 0)
	assert.Equal(t, int64(DefaultMaxUploadBytes), h.maxBytes)
}
