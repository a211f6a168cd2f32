package repository

import (
	"context"
	"fmt"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// SettingsRepository handles the single site settings record
type SettingsRepository struct {
	c collection
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db database.Database) *SettingsRepository {
	return &SettingsRepository{c: collection{db: db, table: model.TableSettings}}
}

// Get returns the stored settings; nil when never written
func (r *SettingsRepository) Get(ctx context.Context) (*model.SiteSettings, error) {
	return getOf[model.SiteSettings](r.c.getByID(ctx, model.SettingsRecordID))
}

// Upsert writes the full settings document to the fixed record. Concurrent
// first writes converge on the same record instead of creating two.
func (r *SettingsRepository) Upsert(ctx context.Context, s *model.SiteSettings) error {
	links := s.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	fields := []field{
		{"site_name", s.SiteName},
		{"tagline", s.Tagline},
		{"logo_url", s.LogoURL},
		{"favicon_url", s.FaviconURL},
		{"contact_email", s.ContactEmail},
		{"social_links", links},
		{"seo", document(s.SEO)},
		{"posts_per_page", s.PostsPerPage},
	}

	vars := map[string]interface{}{"id": model.SettingsRecordID}
	query := fmt.Sprintf("UPSERT type::record($id) SET %s, updated_on = time::now() RETURN AFTER", setClause(fields, vars))

	stored, err := getOf[model.SiteSettings](r.c.db.QueryOne(ctx, query, vars))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	*s = *stored
	return nil
}
