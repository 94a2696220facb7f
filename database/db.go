package database

import (
	"fmt"
	"log"
	"path/filepath"

	"marksync/config"
	"marksync/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var UsersDB *gorm.DB
var RedisClient *redis.Client

// InitUsersDB opens the shared users.db registry. Per-principal stores are
// opened on demand by the store manager, not here.
func InitUsersDB(cfg *config.StorageConfig) error {
	path := filepath.Join(cfg.DataDir, "users.db")

	var err error
	UsersDB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("open users registry: %w", err)
	}

	if err := UsersDB.AutoMigrate(&models.UserRecord{}); err != nil {
		return fmt.Errorf("migrate users registry: %w", err)
	}

	log.Println("users registry ready")
	return nil
}

func InitRedis(cfg *config.RedisConfig) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	log.Println("redis client initialized")
	return nil
}
