package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrQuotaExceeded is the quota signal every Backend implementation maps
// its own "storage full" failure onto.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is the keyed blob storage behind the stores. Implementations
// persist whole JSON documents per key; there is no partial update
// primitive.
type Backend interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, value []byte) error
	Delete(key string) error
	UsedBytes() (int64, error)
}

// Blob is one persisted document.
type Blob struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// SQLiteBackend keeps blobs in a local SQLite file via GORM.
type SQLiteBackend struct {
	database *gorm.DB
}

func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := database.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("migrate blob table: %w", err)
	}

	return &SQLiteBackend{database: database}, nil
}

func (backend *SQLiteBackend) DB() *gorm.DB {
	return backend.database
}

func (backend *SQLiteBackend) Read(key string) ([]byte, bool, error) {
	blob := Blob{}
	result := backend.database.Where("key = ?", key).Limit(1).Find(&blob)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return blob.Value, true, nil
}

func (backend *SQLiteBackend) Write(key string, value []byte) error {
	blob := Blob{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := backend.database.Save(&blob).Error; err != nil {
		if isStorageFull(err) {
			return ErrQuotaExceeded
		}
		return err
	}
	return nil
}

func (backend *SQLiteBackend) Delete(key string) error {
	return backend.database.Where("key = ?", key).Delete(&Blob{}).Error
}

func (backend *SQLiteBackend) UsedBytes() (int64, error) {
	var total int64
	err := backend.database.Model(&Blob{}).
		Select("COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func isStorageFull(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "disk is full") || strings.Contains(message, "database or disk is full")
}
