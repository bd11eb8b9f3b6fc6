package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitalixplus/storefront/pkg/db/models"
)

// SQLStore keeps state in the kv_entries table.
// Expired rows are treated as missing and removed lazily on read.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLStore(conn *gorm.DB) *SQLStore {
	return &SQLStore{db: conn, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.ExpiresAt != nil && !entry.ExpiresAt.After(s.now()) {
		_ = s.Delete(ctx, key)
		return nil, ErrNotFound
	}
	return []byte(entry.Value), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now().UTC()
	entry := models.KVEntry{Key: key, Value: string(value), UpdatedAt: now}
	if ttl > 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where(map[string]any{"key": key}).Delete(&models.KVEntry{}).Error
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PurgeExpired removes every expired row and reports how many were deleted.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.KVEntry{})
	return res.RowsAffected, res.Error
}
