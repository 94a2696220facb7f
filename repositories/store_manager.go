package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"marksync/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormStoreManager opens one SQLite database per principal under the data
// directory and caches the handles. Opening is idempotent; the schema is
// migrated on first open.
type GormStoreManager struct {
	dataDir string
	mu      sync.Mutex
	stores  map[string]*gorm.DB
}

func NewGormStoreManager(dataDir string) *GormStoreManager {
	return &GormStoreManager{dataDir: dataDir, stores: map[string]*gorm.DB{}}
}

func (m *GormStoreManager) Handle(_ context.Context, sub string) (*gorm.DB, error) {
	if !validSub(sub) {
		return nil, fmt.Errorf("invalid principal identifier %q", sub)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.stores[sub]; ok {
		return db, nil
	}

	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(m.dataDir, sub+".db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open store for %s: %w", sub, err)
	}

	if err := db.AutoMigrate(&models.Item{}, &models.BookmarkDetail{}, &models.Settings{}); err != nil {
		return nil, fmt.Errorf("migrate store for %s: %w", sub, err)
	}

	m.stores[sub] = db
	return db, nil
}

func (m *GormStoreManager) WithTransaction(ctx context.Context, sub string, fn func(tx *gorm.DB) error) error {
	db, err := m.Handle(ctx, sub)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(fn)
}

// validSub rejects anything that could escape the data directory. Google
// subject identifiers are plain digit strings.
func validSub(sub string) bool {
	if sub == "" {
		return false
	}
	for _, r := range sub {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
