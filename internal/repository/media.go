package repository

import (
	"context"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// MediaRepository handles media metadata access. The bytes live in storage.
type MediaRepository struct {
	c collection
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db database.Database) *MediaRepository {
	return &MediaRepository{c: collection{
		db:       db,
		table:    model.TableMedia,
		sortable: []string{"filename", "original_name", "size", "created_on", "updated_on"},
	}}
}

// Create inserts a media record
func (r *MediaRepository) Create(ctx context.Context, m *model.Media) error {
	fields := []field{
		{"filename", m.Filename},
		{"original_name", m.OriginalName},
		{"mime_type", m.MimeType},
		{"size", m.Size},
		{"checksum", m.Checksum},
		{"url", m.URL},
		{"storage", string(m.Storage)},
		{"storage_key", m.StorageKey},
		{"alt_text", m.AltText},
		{"caption", m.Caption},
		{"author_id", m.AuthorID},
	}
	raw, err := r.c.create(ctx, fields)
	if err != nil {
		return err
	}
	created, err := parseMedia(raw)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// UpdateMetadata writes the editable descriptive fields
func (r *MediaRepository) UpdateMetadata(ctx context.Context, m *model.Media) error {
	fields := []field{
		{"alt_text", m.AltText},
		{"caption", m.Caption},
	}
	raw, err := r.c.update(ctx, m.ID, fields)
	if err != nil {
		return err
	}
	updated, err := parseMedia(raw)
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

// GetByID retrieves a media record by ID; nil when absent
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*model.Media, error) {
	raw, err := r.c.getByID(ctx, id)
	if err != nil || raw == nil {
		return nil, err
	}
	return parseMedia(raw)
}

// Delete removes a media record
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// StorageKeyInUse reports whether any media record points at key in the given store
func (r *MediaRepository) StorageKeyInUse(ctx context.Context, kind model.StorageKind, key string) (bool, error) {
	query := `SELECT count() AS count FROM media WHERE storage = $storage AND storage_key = $key GROUP ALL`
	vars := map[string]interface{}{
		"storage": string(kind),
		"key":     key,
	}
	results, err := r.c.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return extractCount(results, 0) > 0, nil
}

// List returns one page of media and the total match count
func (r *MediaRepository) List(ctx context.Context, params model.ListParams) ([]*model.Media, int, error) {
	cond := newConditions()
	cond.add("author_id = $author_id", "author_id", params.Filter.AuthorID)
	cond.add("string::starts_with(mime_type, $mime_type)", "mime_type", params.Filter.MimeType)
	rows, total, err := r.c.list(ctx, params, cond)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*model.Media, 0, len(rows))
	for _, row := range rows {
		m, err := parseMedia(row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

// parseMedia decodes a media record, restoring storage_key which the API never serializes
func parseMedia(raw interface{}) (*model.Media, error) {
	m, err := decodeRecord[model.Media](raw)
	if err != nil {
		return nil, err
	}
	if data, ok := raw.(map[string]interface{}); ok {
		m.StorageKey = getString(data, "storage_key")
	}
	return m, nil
}
