package repositories

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type GormRepositories struct {
	dataDir string
	usersDB *gorm.DB
	redis   *redis.Client
}

func NewGormRepositories(dataDir string, usersDB *gorm.DB, redisClient *redis.Client) *GormRepositories {
	return &GormRepositories{dataDir: dataDir, usersDB: usersDB, redis: redisClient}
}

func (r *GormRepositories) BuildContainer() Container {
	return Container{
		Stores:      NewGormStoreManager(r.dataDir),
		Items:       NewGormItemRepository(),
		Settings:    NewGormSettingsRepository(),
		Users:       NewGormUserRepository(r.usersDB),
		OAuthStates: NewRedisOAuthStateRepository(r.redis),
	}
}
