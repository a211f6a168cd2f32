package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgo/folio/internal/model"
)

// UserService handles user administration
type UserService struct {
	userRepo UserRepository
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{userRepo: cfg.UserRepo}
}

// List returns a page of users. Admin only.
func (s *UserService) List(ctx context.Context, identity *model.Identity, params model.ListParams) (*model.ListResult[model.User], error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	return list(ctx, model.TableUser, params, s.userRepo.List)
}

// UpdateRole changes a user's role. Admin only; admins cannot change their own role.
func (s *UserService) UpdateRole(ctx context.Context, identity *model.Identity, id string, req *model.UpdateUserRoleRequest) (*model.User, error) {
	if err := Authorize(identity, AdminOnly, ActionUpdate, ""); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	user, err := fetch(ctx, model.TableUser, id, s.userRepo.GetByID)
	if err != nil {
		return nil, err
	}
	if user.ID == identity.ID {
		return nil, ErrCannotDemoteSelf
	}

	role := model.UserRole(req.Role)
	if user.Role == role {
		return user, nil
	}
	if err := s.userRepo.SetRole(ctx, user.ID, role); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}

	slog.Info("user role changed",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)),
		slog.String("admin_id", identity.ID),
	)
	user.Role = role
	return user, nil
}
