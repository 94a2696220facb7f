package repositories

import (
	"context"

	"marksync/models"

	"gorm.io/gorm"
)

type GormSettingsRepository struct{}

func NewGormSettingsRepository() *GormSettingsRepository {
	return &GormSettingsRepository{}
}

func (r *GormSettingsRepository) Get(_ context.Context, db *gorm.DB) (models.Settings, error) {
	var settings models.Settings
	err := db.Where("id = ?", models.SettingsRowID).First(&settings).Error
	return settings, err
}

func (r *GormSettingsRepository) Create(_ context.Context, db *gorm.DB, settings *models.Settings) error {
	return db.Create(settings).Error
}

func (r *GormSettingsRepository) Save(_ context.Context, db *gorm.DB, settings *models.Settings) error {
	return db.Save(settings).Error
}

func (r *GormSettingsRepository) Purge(_ context.Context, db *gorm.DB) error {
	return db.Where("1 = 1").Delete(&models.Settings{}).Error
}
