// Package auth provides authentication and authorization for the fcon console.
//
// It supports two authentication methods:
//   - Session-based authentication for the web console (username/password login)
//   - Token-based authentication for the JSON API (X-Auth-Token header or Authorization: Bearer)
//
// Authorization uses prefix-based ACL on repository paths with access levels read (r),
// write (w), or read-write (rw). Wildcards (*) match any path, and longest prefix match wins.
//
// Configuration is loaded from a YAML file with optional hot-reload support.
// Sessions live in memory and expire after the login TTL.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/umputun/fcon/app/server/internal/cookie"
)

//go:generate moq -out mocks/sessionstore.go -pkg mocks -skip-ensure -fmt goimports . SessionStore

const (
	defaultSessionCleanupInterval = 1 * time.Hour
	defaultLoginTTL               = 24 * time.Hour
)

// Service handles authentication and authorization.
type Service struct {
	mu              sync.RWMutex    // protects users and tokens
	authFile        string          // path to auth config file for reloading
	users           map[string]User // username -> User (for console login)
	tokens          map[string]ACL  // token string -> ACL (for API auth)
	sessionStore    SessionStore    // login session storage
	validator       ConfigValidator // validates auth config, may be nil
	loginTTL        time.Duration
	cleanupInterval time.Duration // interval for session cleanup, defaults to 1h
	hotReload       bool          // watch auth config for changes and reload
}

// New creates a new Service instance from configuration file.
// Returns nil if authFile is empty (authentication disabled).
func New(authFile string, loginTTL time.Duration, hotReload bool, sstore SessionStore, vldt ConfigValidator) (*Service, error) {
	if authFile == "" {
		return nil, nil //nolint:nilnil // nil auth means disabled, not an error
	}

	if sstore == nil {
		return nil, errors.New("session store is required")
	}

	users, tokens, err := loadAuthData(authFile, vldt)
	if err != nil {
		return nil, err
	}

	if loginTTL == 0 {
		loginTTL = defaultLoginTTL
	}

	return &Service{
		authFile:        authFile,
		users:           users,
		tokens:          tokens,
		sessionStore:    sstore,
		validator:       vldt,
		loginTTL:        loginTTL,
		cleanupInterval: defaultSessionCleanupInterval,
		hotReload:       hotReload,
	}, nil
}

// loadAuthData loads, validates and parses the auth file.
func loadAuthData(authFile string, vldt ConfigValidator) (map[string]User, map[string]ACL, error) {
	cfg, err := LoadConfig(authFile, vldt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load auth config: %w", err)
	}

	users, err := parseUsers(cfg.Users)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse users: %w", err)
	}

	tokens, err := parseTokenConfigs(cfg.Tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse tokens: %w", err)
	}

	if len(users) == 0 && len(tokens) == 0 {
		return nil, nil, errors.New("auth config must have at least one user or token")
	}
	return users, tokens, nil
}

// Enabled returns true if authentication is enabled.
func (s *Service) Enabled() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users) > 0 || len(s.tokens) > 0
}

// Activate starts auth background tasks: file watcher (if hot-reload enabled) and session cleanup.
// Should be called once after New(), typically from main.go.
func (s *Service) Activate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := s.startWatcher(ctx); err != nil {
		return err
	}
	s.startCleanup(ctx)
	return nil
}

// LoginTTL returns the configured login session TTL.
func (s *Service) LoginTTL() time.Duration {
	if s == nil {
		return defaultLoginTTL
	}
	return s.loginTTL
}

// Reload reloads the auth configuration from the file.
// On success, invalidates sessions only for users that were removed or had their password changed.
// On error, keeps the existing config and returns the error.
func (s *Service) Reload(ctx context.Context) error {
	if s == nil {
		return errors.New("auth not enabled")
	}

	users, tokens, err := loadAuthData(s.authFile, s.validator)
	if err != nil {
		return err
	}

	s.mu.Lock()
	var invalidated []string
	for name, old := range s.users {
		if u, ok := users[name]; !ok || u.PasswordHash != old.PasswordHash {
			invalidated = append(invalidated, name)
		}
	}
	s.users = users
	s.tokens = tokens
	s.mu.Unlock()

	// delete sessions outside the lock
	for _, username := range invalidated {
		if err := s.sessionStore.DeleteSessionsByUsername(ctx, username); err != nil {
			log.Printf("[WARN] failed to delete sessions for user %q: %v", username, err)
		}
	}

	if len(invalidated) > 0 {
		log.Printf("[INFO] auth config reloaded from %s, invalidated sessions for: %v", s.authFile, invalidated)
	} else {
		log.Printf("[INFO] auth config reloaded from %s, no sessions invalidated", s.authFile)
	}
	return nil
}

// IsValidUser checks if username/password are valid credentials.
// Uses constant-time comparison to prevent username enumeration via timing attacks.
func (s *Service) IsValidUser(username, password string) bool {
	if s == nil {
		return false
	}

	// valid bcrypt hash (cost=10) so unknown users take as long as known ones
	const dummyHash = "$2a$10$C615A0mfUEFBupj9qcqhiuBEyf60EqrsakB90CozUoSON8d2Dc1uS"

	s.mu.RLock()
	user, exists := s.users[username]
	hashToCheck := dummyHash
	if exists {
		hashToCheck = user.PasswordHash
	}
	s.mu.RUnlock()

	if err := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(password)); err != nil || !exists {
		return false
	}
	return true
}

// CreateSession generates a new session token for the given username.
func (s *Service) CreateSession(ctx context.Context, username string) (string, error) {
	if s == nil {
		return "", errors.New("auth not enabled")
	}

	token := uuid.NewString()
	if err := s.sessionStore.CreateSession(ctx, token, username, time.Now().Add(s.loginTTL)); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// GetSessionUser returns the username for a valid session.
func (s *Service) GetSessionUser(ctx context.Context, token string) (string, bool) {
	if s == nil {
		return "", false
	}
	username, _, err := s.sessionStore.GetSession(ctx, token)
	if err != nil {
		return "", false
	}
	return username, true
}

// InvalidateSession removes a session.
func (s *Service) InvalidateSession(ctx context.Context, token string) {
	if s == nil {
		return
	}
	if err := s.sessionStore.DeleteSession(ctx, token); err != nil {
		log.Printf("[WARN] failed to delete session: %v", err)
	}
}

// RequestUser returns the username of the session attached to the request, empty if none.
func (s *Service) RequestUser(r *http.Request) string {
	if s == nil {
		return ""
	}
	for _, cookieName := range cookie.SessionCookieNames {
		if c, err := r.Cookie(cookieName); err == nil {
			if username, ok := s.GetSessionUser(r.Context(), c.Value); ok {
				return username
			}
		}
	}
	return ""
}

// CheckUserPermission checks if a user has the required permission for a repository path.
// Returns true when auth is disabled (permissive by default).
func (s *Service) CheckUserPermission(username, path string, needWrite bool) bool {
	if s == nil || !s.Enabled() {
		return true
	}
	s.mu.RLock()
	user, exists := s.users[username]
	s.mu.RUnlock()
	if !exists {
		return false
	}
	return user.ACL.CheckPathPermission(path, needWrite)
}

// CheckTokenPermission checks if an API token has the required permission for a repository path.
// Returns true when auth is disabled.
func (s *Service) CheckTokenPermission(token, path string, needWrite bool) bool {
	if s == nil || !s.Enabled() {
		return true
	}
	s.mu.RLock()
	acl, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return acl.CheckPathPermission(path, needWrite)
}

// UserCanWrite returns true if user has any write permission.
// Returns true when auth is disabled (permissive by default).
func (s *Service) UserCanWrite(username string) bool {
	if s == nil || !s.Enabled() {
		return true
	}
	s.mu.RLock()
	user, exists := s.users[username]
	s.mu.RUnlock()
	return exists && user.ACL.canWriteAny()
}

// hasToken checks if a token exists in the config.
func (s *Service) hasToken(token string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	_, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok
}

// startWatcher starts watching the auth config file for changes.
// when the file changes, it reloads the configuration automatically.
// the watcher stops when the context is canceled.
func (s *Service) startWatcher(ctx context.Context) error {
	if !s.hotReload {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// watch the directory, editors replace files with atomic renames
	dir := filepath.Dir(s.authFile)
	filename := filepath.Base(s.authFile)

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	log.Printf("[INFO] watching auth config file %s for changes", s.authFile)

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		const debounceDelay = 100 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				log.Printf("[INFO] auth config watcher stopped")
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					if ctx.Err() != nil {
						return
					}
					if err := s.Reload(ctx); err != nil {
						log.Printf("[WARN] failed to reload auth config: %v", err)
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] auth config watcher error: %v", err)
			}
		}
	}()

	return nil
}

// startCleanup starts background cleanup of expired sessions.
func (s *Service) startCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Printf("[INFO] session cleanup stopped")
				return
			case <-ticker.C:
				deleted, err := s.sessionStore.DeleteExpiredSessions(ctx)
				if err != nil {
					log.Printf("[WARN] failed to cleanup expired sessions: %v", err)
					continue
				}
				if deleted > 0 {
					log.Printf("[INFO] cleaned up %d expired sessions", deleted)
				}
			}
		}
	}()

	log.Printf("[INFO] session cleanup started (interval: %s)", s.cleanupInterval)
}
