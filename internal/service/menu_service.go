package service

import (
	"context"
	"fmt"

	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"

	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// Menu retrieves the items eligible for display: both availability flags
// must not be false.
func (s *menuService) Menu(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.ListItems(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	visible := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Displayable() {
			visible = append(visible, item)
		}
	}

	return visible, nil
}

// Categories retrieves all menu categories.
func (s *menuService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.menuRepo.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// SetAvailability flips an item's current availability flag.
func (s *menuService) SetAvailability(ctx context.Context, id string, available bool) error {
	ok, err := s.menuRepo.SetAvailability(ctx, id, available)
	if err != nil {
		s.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to set availability")
		return fmt.Errorf("failed to set availability: %w", err)
	}
	if !ok {
		return model.ErrMenuItemNotFound
	}

	s.logger.Info().
		Str("menu_item_id", id).
		Bool("available", available).
		Msg("menu item availability changed")

	return nil
}
