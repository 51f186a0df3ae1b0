package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Keys used by the order pipeline. Values are plain JSON strings,
// best-effort durability only.
const (
	KeyToken           = "token"
	KeyCurrentOrder    = "currentOrder"
	KeyOrderForPayment = "orderForPayment"
	KeyOrderHistory    = "orderHistory"
)

var ErrKeyNotFound = errors.New("key not found")

// LocalStore is the device-local key-value storage behind the order flow.
// Business logic only sees this interface so tests can swap in a memory
// implementation.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

type localStoreImpl struct {
	db *gorm.DB
}

// OpenLocalStore opens (or creates) the sqlite-backed device store.
func OpenLocalStore(path string) (LocalStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	if err := db.AutoMigrate(&StorageEntry{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	return &localStoreImpl{db: db}, nil
}

func (s *localStoreImpl) Get(ctx context.Context, key string) (string, error) {
	var entry StorageEntry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}

	return entry.Value, nil
}

func (s *localStoreImpl) Set(ctx context.Context, key, value string) error {
	entry := StorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}

	// Last write wins, matching browser localStorage semantics.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": entry.UpdatedAt,
		}),
	}).Create(&entry).Error
}

func (s *localStoreImpl) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&StorageEntry{}).Error
}
