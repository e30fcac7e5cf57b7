package service

import (
	"context"
	"fmt"
	"time"

	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// Create registers a new staff account.
func (s *userService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, fmt.Errorf("email, password and role are required")
	}

	if req.Role != model.RoleAdmin && req.Role != model.RoleWaiter {
		return nil, model.ErrInvalidRole
	}

	if len(req.Password) < minPasswordLength {
		return nil, model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", user.Role).
		Msg("staff account created")

	return user, nil
}

// Delete removes a staff account. Actors cannot delete themselves,
// whatever their role.
func (s *userService) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		s.logger.Warn().Str("user_id", actorID.String()).Msg("self-delete refused")
		return model.ErrSelfDelete
	}

	ok, err := s.userRepo.Delete(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !ok {
		return model.ErrUserNotFound
	}

	return nil
}

// UpdatePassword resets a staff account's password.
func (s *userService) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < minPasswordLength {
		return model.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return fmt.Errorf("failed to update password: %w", err)
	}

	ok, err := s.userRepo.UpdatePassword(ctx, id, string(hash))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if !ok {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id.String()).Msg("password updated")
	return nil
}

// GetByID retrieves a staff account, or nil when missing.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
