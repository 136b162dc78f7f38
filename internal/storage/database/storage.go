package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/scoretracker/internal/storage"

	_ "modernc.org/sqlite"
)

// entry is one persisted session value
type entry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;column:entry_key;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "session_entries"
}

// Storage is a SQL implementation of the storage interface backed by gorm
type Storage struct {
	db        *gorm.DB
	namespace string
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens the configured database and migrates the schema
func New(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		// Pure Go driver registered by modernc.org/sqlite
		dialector = sqlite.New(sqlite.Config{
			DSN:        cfg.DSN,
			DriverName: "sqlite",
		})
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return NewWithDB(db, cfg.Namespace)
}

// NewWithDB creates a storage on an existing gorm handle and migrates the schema
func NewWithDB(db *gorm.DB, namespace string) (*Storage, error) {
	if namespace == "" {
		namespace = DefaultConfig().Namespace
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate session entries: %w", err)
	}
	return &Storage{db: db, namespace: namespace}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	var e entry
	err := s.db.WithContext(ctx).
		Where(&entry{Namespace: s.namespace, Key: string(key)}).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(e.Value), nil
}

func (s *Storage) Set(ctx context.Context, key storage.Key, value []byte) error {
	return s.upsert(s.db.WithContext(ctx), key, value)
}

func (s *Storage) SetMany(ctx context.Context, values map[storage.Key][]byte) error {
	if len(values) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := s.upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) Delete(ctx context.Context, keys ...storage.Key) error {
	if len(keys) == 0 {
		return nil
	}

	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = string(key)
	}

	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", s.namespace, names).
		Delete(&entry{}).Error
	if err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

func (s *Storage) upsert(db *gorm.DB, key storage.Key, value []byte) error {
	e := entry{
		Namespace: s.namespace,
		Key:       string(key),
		Value:     string(value),
	}
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
