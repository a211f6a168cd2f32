package service

import (
	"context"
	"fmt"

	"github.com/forgo/folio/internal/model"
)

// SettingsRepository defines the interface for the site settings record
type SettingsRepository interface {
	Get(ctx context.Context) (*model.SiteSettings, error)
	Upsert(ctx context.Context, settings *model.SiteSettings) error
}

// SettingsService manages the single site settings record
type SettingsService struct {
	repo SettingsRepository
}

// SettingsServiceConfig holds configuration for the settings service
type SettingsServiceConfig struct {
	Repo SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(cfg SettingsServiceConfig) *SettingsService {
	return &SettingsService{repo: cfg.Repo}
}

// Get returns the site settings, or the defaults when none were saved yet
func (s *SettingsService) Get(ctx context.Context) (*model.SiteSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if settings == nil {
		return model.DefaultSiteSettings(), nil
	}
	return settings, nil
}

// Update merges the supplied fields into the stored settings. Admin only.
// Repeating the same update leaves the record unchanged.
func (s *SettingsService) Update(ctx context.Context, identity *model.Identity, req *model.UpdateSiteSettingsRequest) (*model.SiteSettings, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	req.Apply(settings)

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}
