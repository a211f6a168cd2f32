// Package storage persists uploaded media bytes. Objects go to S3 when a
// bucket is configured and to the local upload directory otherwise, or when
// S3 refuses the write.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/forgo/folio/internal/model"
)

// ErrInvalidKey is returned for keys that would escape the store root
var ErrInvalidKey = errors.New("invalid storage key")

// Object locates stored bytes
type Object struct {
	Storage model.StorageKind
	Key     string
	URL     string
}

// Store is a backend for media bytes
type Store interface {
	Kind() model.StorageKind
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Checksum returns the hex xxhash64 of data
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// extensions maps the media types uploads are accepted as to the extension
// stored objects carry. The extension decides how /uploads/ serves a file, so
// it always follows the sniffed type and never the client's filename.
var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"image/x-icon":    ".ico",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/avi":       ".avi",
	"audio/mpeg":      ".mp3",
	"audio/wave":      ".wav",
	"audio/ogg":       ".ogg",
	"audio/aiff":      ".aiff",
	"audio/midi":      ".mid",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// ExtensionFor returns the object extension for mimeType, or "" when the
// type has none that is safe to serve.
func ExtensionFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	ext := strings.ToLower(exts[0])
	if served := mime.TypeByExtension(ext); !strings.HasPrefix(served, mimeType) {
		return ""
	}
	return ext
}

// NewKey builds a unique object key whose extension follows mimeType.
// Keys are grouped by upload month: "2024/05/<uuid>.png".
func NewKey(mimeType string, now time.Time) string {
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ExtensionFor(mimeType))
}

// validKey rejects absolute keys and keys that climb out of the root
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return false
		}
	}
	return true
}

// Fallback writes to the primary store and falls back to the secondary when
// the primary fails. Deletes are routed by the kind recorded on the object.
type Fallback struct {
	primary   Store
	secondary Store
	logger    *slog.Logger
}

// NewFallback creates a store that prefers primary. primary may be nil, in
// which case every write goes to secondary.
func NewFallback(primary, secondary Store, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Put stores data, returning where it landed
func (f *Fallback) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if f.primary != nil {
		obj, err := f.primary.Put(ctx, key, contentType, data)
		if err == nil {
			return obj, nil
		}
		f.logger.Warn("primary storage failed, falling back",
			slog.String("storage", string(f.primary.Kind())),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return f.secondary.Put(ctx, key, contentType, data)
}

// Delete removes the object from the backend that holds it
func (f *Fallback) Delete(ctx context.Context, kind model.StorageKind, key string) error {
	switch {
	case f.primary != nil && f.primary.Kind() == kind:
		return f.primary.Delete(ctx, key)
	case f.secondary.Kind() == kind:
		return f.secondary.Delete(ctx, key)
	}
	return fmt.Errorf("no %q store configured", kind)
}
