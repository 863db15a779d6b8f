package auth

import (
	"fmt"
	"strings"
)

// Permission is an access level granted on a path prefix.
type Permission int

// access levels
const (
	PermissionNone Permission = iota
	PermissionRead
	PermissionWrite
	PermissionReadWrite
)

// ParsePermission converts r/read, w/write, rw/readwrite/read-write to a Permission.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "read":
		return PermissionRead, nil
	case "w", "write":
		return PermissionWrite, nil
	case "rw", "readwrite", "read-write":
		return PermissionReadWrite, nil
	default:
		return PermissionNone, fmt.Errorf("expected r/w/rw, got %q", s)
	}
}

// CanRead reports whether the permission grants read access.
func (p Permission) CanRead() bool { return p == PermissionRead || p == PermissionReadWrite }

// CanWrite reports whether the permission grants write access.
func (p Permission) CanWrite() bool { return p == PermissionWrite || p == PermissionReadWrite }

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "r"
	case PermissionWrite:
		return "w"
	case PermissionReadWrite:
		return "rw"
	default:
		return "none"
	}
}
