package services

import (
	"context"

	"collabhub/internal/auth"
	"collabhub/internal/authz"
	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DirectoryService manages user records: registration, lookup and the
// admin-only status mutation.
type DirectoryService interface {
	Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error)
	// GetUserByID is readable by the user themselves or by an ADMIN.
	GetUserByID(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error)
	// UpdateUserStatus trusts its caller to have already run the ADMIN gate.
	// This is a documented contract with the resolver layer, not an oversight.
	UpdateUserStatus(ctx context.Context, email string, status models.UserStatus, updatedBy uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type directoryService struct {
	userRepo repositories.UserRepository
	logger   zerolog.Logger
}

func NewDirectoryService(userRepo repositories.UserRepository, logger zerolog.Logger) DirectoryService {
	return &directoryService{userRepo: userRepo, logger: logger}
}

func (s *directoryService) Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, common.Validation(fields)
	}

	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, common.Validation(map[string]string{"role": "unknown role"})
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.Internal(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       models.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Duplicate email already comes back as a field-level validation error.
		return nil, common.AsAppError(err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

func (s *directoryService) GetUserByID(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if err := authz.CheckUser(actor, authz.AnyUser, actor != nil && (actor.Role == models.RoleAdmin || actor.ID == id)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.NotFound("User not found")
		}
		return nil, common.Internal(err)
	}
	return user, nil
}

func (s *directoryService) UpdateUserStatus(ctx context.Context, email string, status models.UserStatus, updatedBy uuid.UUID) (*models.User, error) {
	if !status.Valid() {
		return nil, common.Validation(map[string]string{"status": "unknown status"})
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.NotFound("User not found")
		}
		return nil, common.Internal(err)
	}

	if err := s.userRepo.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, common.Internal(err)
	}
	user.Status = status

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("status", string(status)).
		Str("updated_by", updatedBy.String()).
		Msg("user status updated")
	return user, nil
}

func (s *directoryService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.Internal(err)
	}
	return users, nil
}
