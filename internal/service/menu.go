package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// MenuRepository defines the interface for menu storage
type MenuRepository interface {
	Create(ctx context.Context, menu *model.Menu) error
	Update(ctx context.Context, menu *model.Menu) error
	GetByID(ctx context.Context, id string) (*model.Menu, error)
	GetByLocation(ctx context.Context, location string) (*model.Menu, error)
	LocationTaken(ctx context.Context, location, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params model.ListParams) ([]*model.Menu, int, error)
}

// MenuService handles navigation menus. At most one menu is bound to each location.
type MenuService struct {
	repo MenuRepository
}

// MenuServiceConfig holds configuration for the menu service
type MenuServiceConfig struct {
	Repo MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(cfg MenuServiceConfig) *MenuService {
	return &MenuService{repo: cfg.Repo}
}

// Create creates a menu. Admin only.
func (s *MenuService) Create(ctx context.Context, identity *model.Identity, req *model.CreateMenuRequest) (*model.Menu, error) {
	if err := Authorize(identity, AdminOnly, ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, req.Location, ""); err != nil {
		return nil, err
	}

	menu := &model.Menu{
		Name:     strings.TrimSpace(req.Name),
		Location: req.Location,
		Items:    req.Items,
	}
	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, storeErr("create menu", err, ErrDuplicateLocation)
	}
	return menu, nil
}

// Update applies the supplied fields to a menu. Admin only.
func (s *MenuService) Update(ctx context.Context, identity *model.Identity, id string, req *model.UpdateMenuRequest) (*model.Menu, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	menu, err := fetch(ctx, model.TableMenu, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	if req.Location != nil && *req.Location != menu.Location {
		if err := s.checkLocation(ctx, *req.Location, menu.ID); err != nil {
			return nil, err
		}
		menu.Location = *req.Location
	}
	if req.Name != nil {
		menu.Name = strings.TrimSpace(*req.Name)
	}
	if req.Items != nil {
		menu.Items = *req.Items
	}

	if err := s.repo.Update(ctx, menu); err != nil {
		return nil, storeErr("update menu", err, ErrDuplicateLocation)
	}
	return menu, nil
}

// Delete deletes a menu. Admin only.
func (s *MenuService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if err := Authorize(identity, AdminOnly, ActionDelete, ""); err != nil {
		return err
	}
	menu, err := fetch(ctx, model.TableMenu, id, s.repo.GetByID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, menu.ID); err != nil {
		return storeErr("delete menu", err, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a menu by ID
func (s *MenuService) GetByID(ctx context.Context, id string) (*model.Menu, error) {
	return fetch(ctx, model.TableMenu, id, s.repo.GetByID)
}

// GetByLocation retrieves the menu bound to a theme location
func (s *MenuService) GetByLocation(ctx context.Context, location string) (*model.Menu, error) {
	menu, err := s.repo.GetByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("get menu by location: %w", err)
	}
	if menu == nil {
		return nil, ErrNotFound
	}
	return menu, nil
}

// List returns a page of menus
func (s *MenuService) List(ctx context.Context, params model.ListParams) (*model.ListResult[model.Menu], error) {
	return list(ctx, model.TableMenu, params, s.repo.List)
}

func (s *MenuService) checkLocation(ctx context.Context, location, excludeID string) error {
	taken, err := s.repo.LocationTaken(ctx, location, excludeID)
	if err != nil {
		return fmt.Errorf("check menu location: %w", err)
	}
	if taken {
		return ErrDuplicateLocation
	}
	return nil
}
