package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the auth configuration file (fcon-auth.yml).
type Config struct {
	Users  []UserConfig  `yaml:"users,omitempty" json:"users,omitempty" jsonschema:"description=users for web console login"`
	Tokens []TokenConfig `yaml:"tokens,omitempty" json:"tokens,omitempty" jsonschema:"description=API tokens"`
}

// UserConfig represents a user in the auth config file.
type UserConfig struct {
	Name        string             `yaml:"name" json:"name" jsonschema:"required"`
	Password    string             `yaml:"password" json:"password" jsonschema:"required"` // bcrypt hash
	Permissions []PermissionConfig `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// TokenConfig represents an API token in the auth config file.
type TokenConfig struct {
	Token       string             `yaml:"token" json:"token" jsonschema:"required"`
	Permissions []PermissionConfig `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// PermissionConfig represents a path prefix and access pair in the config file.
type PermissionConfig struct {
	Prefix string `yaml:"prefix" json:"prefix" jsonschema:"required"`
	Access string `yaml:"access" json:"access" jsonschema:"required,enum=r,enum=read,enum=w,enum=write,enum=rw,enum=readwrite,enum=read-write"`
}

// User represents an authenticated user with ACL.
type User struct {
	Name         string
	PasswordHash string
	ACL          ACL
}

// ACL defines path-prefix access control for a user or token.
type ACL struct {
	Name     string
	prefixes []prefixPerm // sorted by prefix length descending for longest-match-first
}

// SessionStore is the interface for login session storage.
type SessionStore interface {
	CreateSession(ctx context.Context, token, username string, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (username string, expiresAt time.Time, err error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsByUsername(ctx context.Context, username string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// ConfigValidator validates auth configuration data against a schema.
type ConfigValidator func(data []byte) error

// prefixPerm represents a single prefix-permission pair, used for ordered matching.
type prefixPerm struct {
	prefix     string
	permission Permission
}

// LoadConfig reads and parses the auth YAML file.
// If validator is provided, the config is validated against the schema.
func LoadConfig(path string, validator ConfigValidator) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from CLI flag, controlled by admin
	if err != nil {
		return nil, fmt.Errorf("failed to read auth config file: %w", err)
	}

	if validator != nil {
		if err := validator(data); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse auth config file: %w", err)
	}

	return &cfg, nil
}

// CheckPathPermission checks if this ACL grants permission for a repository path.
func (acl ACL) CheckPathPermission(path string, needWrite bool) bool {
	path = NormalizePath(path)
	for _, pp := range acl.prefixes {
		if matchPrefix(pp.prefix, path) {
			if needWrite {
				return pp.permission.CanWrite()
			}
			return pp.permission.CanRead()
		}
	}
	return false
}

// canWriteAny reports whether any prefix grants write access.
func (acl ACL) canWriteAny() bool {
	for _, pp := range acl.prefixes {
		if pp.permission.CanWrite() {
			return true
		}
	}
	return false
}

// NormalizePath trims slashes and whitespace so "/a/b/" and "a/b" are the same path.
func NormalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// parseUsers converts UserConfig slice to users map.
func parseUsers(configs []UserConfig) (map[string]User, error) {
	users := make(map[string]User)

	for _, uc := range configs {
		if uc.Name == "" {
			return nil, errors.New("user name cannot be empty")
		}
		if uc.Password == "" {
			return nil, fmt.Errorf("password hash cannot be empty for user %q", uc.Name)
		}
		if _, exists := users[uc.Name]; exists {
			return nil, fmt.Errorf("duplicate user name %q", uc.Name)
		}

		acl, err := parsePermissionConfigs(uc.Name, uc.Permissions)
		if err != nil {
			return nil, fmt.Errorf("invalid permissions for user %q: %w", uc.Name, err)
		}

		users[uc.Name] = User{Name: uc.Name, PasswordHash: uc.Password, ACL: acl}
	}

	return users, nil
}

// parseTokenConfigs converts TokenConfig slice to tokens map.
func parseTokenConfigs(configs []TokenConfig) (map[string]ACL, error) {
	tokens := make(map[string]ACL)

	for _, tc := range configs {
		if tc.Token == "" {
			return nil, errors.New("token cannot be empty")
		}
		if _, exists := tokens[tc.Token]; exists {
			return nil, fmt.Errorf("duplicate token %q", MaskToken(tc.Token))
		}

		acl, err := parsePermissionConfigs(MaskToken(tc.Token), tc.Permissions)
		if err != nil {
			return nil, fmt.Errorf("invalid permissions for token %q: %w", MaskToken(tc.Token), err)
		}
		tokens[tc.Token] = acl
	}

	return tokens, nil
}

// parsePermissionConfigs converts PermissionConfig slice to ACL.
func parsePermissionConfigs(name string, configs []PermissionConfig) (ACL, error) {
	acl := ACL{Name: name}
	seen := make(map[string]bool)

	for _, pc := range configs {
		prefix := strings.TrimSpace(pc.Prefix)
		if prefix == "" {
			return ACL{}, errors.New("prefix cannot be empty")
		}
		if prefix != "*" {
			prefix = strings.TrimPrefix(prefix, "/")
		}
		if seen[prefix] {
			return ACL{}, fmt.Errorf("duplicate prefix %q", pc.Prefix)
		}
		seen[prefix] = true

		perm, err := ParsePermission(pc.Access)
		if err != nil {
			return ACL{}, fmt.Errorf("invalid access %q for prefix %q: %w", pc.Access, pc.Prefix, err)
		}

		acl.prefixes = append(acl.prefixes, prefixPerm{prefix: prefix, permission: perm})
	}

	// sort prefixes by length descending for longest-match-first
	sort.Slice(acl.prefixes, func(i, j int) bool {
		return len(acl.prefixes[i].prefix) > len(acl.prefixes[j].prefix)
	})

	return acl, nil
}

// matchPrefix checks if a path matches a prefix pattern.
// "*" matches everything, "books/*" matches paths starting with "books/", anything else is exact.
func matchPrefix(pattern, path string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, found := strings.CutSuffix(pattern, "*"); found {
		return strings.HasPrefix(path, prefix)
	}
	return NormalizePath(pattern) == path
}
