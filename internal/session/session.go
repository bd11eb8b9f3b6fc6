package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitalixplus/storefront/pkg/enums"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/storage"
)

const (
	idBytes   = 32
	keyPrefix = "session:"
)

// Session is the server-side mirror of a logged-in storefront user.
type Session struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        enums.Role `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Key is the fixed storage key of a session.
func Key(id string) string {
	return keyPrefix + id
}

// Manager persists sessions under opaque random ids.
type Manager struct {
	store storage.Store
	ttl   time.Duration
}

// NewManager builds a session manager. A zero ttl keeps sessions until logout.
func NewManager(store storage.Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("session ttl cannot be negative")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Create assigns a fresh id to s and stores it.
func (m *Manager) Create(ctx context.Context, s Session) (Session, error) {
	id, err := newID()
	if err != nil {
		return Session{}, err
	}
	s.ID = id
	if err := m.Save(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Save overwrites the stored session.
func (m *Manager) Save(ctx context.Context, s Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	return storage.PutJSON(ctx, m.store, Key(s.ID), s, m.ttl)
}

// Load returns the stored session. Missing or unreadable sessions are UNAUTHORIZED.
func (m *Manager) Load(ctx context.Context, id string) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	var s Session
	err := storage.GetJSON(ctx, m.store, Key(id), &s)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrDecode):
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or invalid")
	case err != nil:
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	return s, nil
}

// Revoke deletes the session. Revoking an unknown id is not an error.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return m.store.Delete(ctx, Key(id))
}

func newID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
