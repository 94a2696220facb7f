package repositories

import (
	"context"

	"marksync/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetBySub(ctx context.Context, sub string) (models.UserRecord, error) {
	var user models.UserRecord
	err := r.db.WithContext(ctx).Where("sub = ?", sub).First(&user).Error
	return user, err
}

func (r *GormUserRepository) Upsert(ctx context.Context, user *models.UserRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sub"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(user).Error
}
