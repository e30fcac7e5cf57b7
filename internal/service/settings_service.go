package service

import (
	"context"
	"fmt"

	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"

	"github.com/rs/zerolog"
)

// settingsService implements SettingsService.
type settingsService struct {
	settingsRepo repository.SettingsRepository
	logger       zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo repository.SettingsRepository, logger zerolog.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		logger:       logger.With().Str("service", "settings").Logger(),
	}
}

// Get reads the settings, defaults applied.
func (s *settingsService) Get(ctx context.Context) (*model.DeliverySettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read settings")
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return settings, nil
}

// Update merges a partial settings write. Empty updates are rejected
// before touching the store.
func (s *settingsService) Update(ctx context.Context, update *model.SettingsUpdate) error {
	if update == nil || update.Empty() {
		return fmt.Errorf("settings update carries no fields")
	}

	if update.DeliveryFee != nil && *update.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee cannot be negative")
	}
	if update.ContainerPrice != nil && *update.ContainerPrice < 0 {
		return fmt.Errorf("container price cannot be negative")
	}
	if update.DeliveryRadiusKM != nil && *update.DeliveryRadiusKM < 0 {
		return fmt.Errorf("delivery radius cannot be negative")
	}

	if err := s.settingsRepo.Update(ctx, update); err != nil {
		s.logger.Error().Err(err).Msg("failed to update settings")
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}
