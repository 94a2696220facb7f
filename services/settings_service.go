package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marksync/models"
	"marksync/repositories"

	"gorm.io/gorm"
)

type SettingsOutput struct {
	ShowTitles    bool      `json:"show_titles"`
	TilesPerRow   int       `json:"tiles_per_row"`
	TileGap       int       `json:"tile_gap"`
	ShowAddButton bool      `json:"show_add_button"`
	LastUpdated   time.Time `json:"last_updated"`
}

type SettingsPatchInput struct {
	ShowTitles    *bool
	TilesPerRow   *int
	TileGap       *int
	ShowAddButton *bool
}

type SettingsService interface {
	GetSettings(ctx context.Context, sub string) (SettingsOutput, error)
	PatchSettings(ctx context.Context, sub string, in SettingsPatchInput) (SettingsOutput, error)
}

type settingsService struct {
	stores   StoreManager
	settings repositories.SettingsRepository
}

func NewSettingsService(stores StoreManager, settings repositories.SettingsRepository) SettingsService {
	return &settingsService{stores: stores, settings: settings}
}

func settingsOutput(s models.Settings) SettingsOutput {
	return SettingsOutput{
		ShowTitles:    s.ShowTitles,
		TilesPerRow:   s.TilesPerRow,
		TileGap:       s.TileGap,
		ShowAddButton: s.ShowAddButton,
		LastUpdated:   s.LastUpdated,
	}
}

func (s *settingsService) GetSettings(ctx context.Context, sub string) (SettingsOutput, error) {
	var settings models.Settings
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		settings, err = s.getOrCreate(ctx, tx)
		return err
	})
	if err != nil {
		return SettingsOutput{}, asAppError(err)
	}
	return settingsOutput(settings), nil
}

func (s *settingsService) PatchSettings(ctx context.Context, sub string, in SettingsPatchInput) (SettingsOutput, error) {
	var settings models.Settings
	err := s.stores.WithTransaction(ctx, sub, func(tx *gorm.DB) error {
		var err error
		settings, err = s.getOrCreate(ctx, tx)
		if err != nil {
			return err
		}

		if in.ShowTitles != nil {
			settings.ShowTitles = *in.ShowTitles
		}
		if in.TilesPerRow != nil {
			settings.TilesPerRow = *in.TilesPerRow
		}
		if in.TileGap != nil {
			settings.TileGap = *in.TileGap
		}
		if in.ShowAddButton != nil {
			settings.ShowAddButton = *in.ShowAddButton
		}
		settings.LastUpdated = time.Now().UTC()

		if err := s.settings.Save(ctx, tx, &settings); err != nil {
			return newAppError(http.StatusInternalServerError, "failed to save settings", err)
		}
		return nil
	})
	if err != nil {
		return SettingsOutput{}, asAppError(err)
	}
	return settingsOutput(settings), nil
}

// getOrCreate lazily materializes the single settings row with defaults.
// Calling it repeatedly is a no-op.
func (s *settingsService) getOrCreate(ctx context.Context, tx *gorm.DB) (models.Settings, error) {
	settings, err := s.settings.Get(ctx, tx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{}, newAppError(http.StatusInternalServerError, "failed to load settings", err)
	}

	settings = models.DefaultSettings(time.Now().UTC())
	if err := s.settings.Create(ctx, tx, &settings); err != nil {
		return models.Settings{}, newAppError(http.StatusInternalServerError, "failed to create settings", err)
	}
	return settings, nil
}
