package models

import "time"

// KVEntry is one persisted client-state value (a cart, a session, a watcher snapshot).
// A nil ExpiresAt never expires.
type KVEntry struct {
	Key       string     `gorm:"column:key;primaryKey;size:255"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
