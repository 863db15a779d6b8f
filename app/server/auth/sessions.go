package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lcw/v2"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// maxSessions caps the number of live login sessions kept in memory.
const maxSessions = 10000

type session struct {
	username  string
	expiresAt time.Time
}

// MemorySessions keeps login sessions in an expirable in-memory cache.
// Sessions do not survive a restart.
type MemorySessions struct {
	cache *lcw.ExpirableCache[session]
}

// NewMemorySessions creates session storage; entries are evicted after ttl.
func NewMemorySessions(ttl time.Duration) (*MemorySessions, error) {
	o := lcw.NewOpts[session]()
	cache, err := lcw.NewExpirableCache(o.TTL(ttl), o.MaxKeys(maxSessions))
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &MemorySessions{cache: cache}, nil
}

// CreateSession stores a session for username.
func (m *MemorySessions) CreateSession(_ context.Context, token, username string, expiresAt time.Time) error {
	m.cache.Delete(token)
	if _, err := m.cache.Get(token, func() (session, error) {
		return session{username: username, expiresAt: expiresAt}, nil
	}); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession returns the session owner, ErrSessionNotFound for unknown or expired tokens.
func (m *MemorySessions) GetSession(_ context.Context, token string) (username string, expiresAt time.Time, err error) {
	s, ok := m.cache.Peek(token)
	if !ok {
		return "", time.Time{}, ErrSessionNotFound
	}
	if time.Now().After(s.expiresAt) {
		m.cache.Delete(token)
		return "", time.Time{}, ErrSessionNotFound
	}
	return s.username, s.expiresAt, nil
}

// DeleteSession removes a session.
func (m *MemorySessions) DeleteSession(_ context.Context, token string) error {
	m.cache.Delete(token)
	return nil
}

// DeleteSessionsByUsername removes all sessions of username.
func (m *MemorySessions) DeleteSessionsByUsername(_ context.Context, username string) error {
	for _, key := range m.cache.Keys() {
		if s, ok := m.cache.Peek(key); ok && s.username == username {
			m.cache.Delete(key)
		}
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiration and returns how many were removed.
func (m *MemorySessions) DeleteExpiredSessions(_ context.Context) (int64, error) {
	var count int64
	now := time.Now()
	for _, key := range m.cache.Keys() {
		if s, ok := m.cache.Peek(key); ok && now.After(s.expiresAt) {
			m.cache.Delete(key)
			count++
		}
	}
	return count, nil
}

// Close stops the cache cleanup.
func (m *MemorySessions) Close() error {
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("failed to close session cache: %w", err)
	}
	return nil
}
