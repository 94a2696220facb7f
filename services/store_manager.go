package services

import (
	"context"

	"gorm.io/gorm"
)

// StoreManager selects the authenticated principal's isolated store. Reads
// go through Handle; every mutation goes through WithTransaction so it
// either commits fully or leaves prior state untouched.
type StoreManager interface {
	Handle(ctx context.Context, sub string) (*gorm.DB, error)
	WithTransaction(ctx context.Context, sub string, fn func(tx *gorm.DB) error) error
}
