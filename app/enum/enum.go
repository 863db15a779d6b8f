// Package enum defines small value types shared by the console handlers.
package enum

import (
	"fmt"
	"strings"
)

// Theme is the console color theme.
type Theme int

// supported themes
const (
	ThemeSystem Theme = iota
	ThemeLight
	ThemeDark
)

// ThemeValues lists themes in toggle order.
var ThemeValues = []Theme{ThemeSystem, ThemeLight, ThemeDark}

// ParseTheme converts a string to Theme, case insensitive.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "system":
		return ThemeSystem, nil
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeSystem, fmt.Errorf("invalid theme %q", s)
	}
}

// String returns the cookie and CSS name of the theme.
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "system"
	}
}

// Toggle returns the next theme in the cycle: system -> light -> dark -> system.
func (t Theme) Toggle() Theme {
	for i, v := range ThemeValues {
		if v == t {
			return ThemeValues[(i+1)%len(ThemeValues)]
		}
	}
	return ThemeSystem
}

// ChromaStyle returns the highlighting style matching the theme.
func (t Theme) ChromaStyle() string {
	if t == ThemeDark {
		return "github-dark"
	}
	return "github"
}

// AuditResult is the outcome of an audited action.
type AuditResult int

// audit results
const (
	AuditResultSuccess AuditResult = iota
	AuditResultDenied              // rejected by the access check
	AuditResultInvalid             // form could not be turned into an action
	AuditResultFailed              // repository refused the request or was unreachable
)

// String returns the log name of the result.
func (a AuditResult) String() string {
	switch a {
	case AuditResultDenied:
		return "denied"
	case AuditResultInvalid:
		return "invalid"
	case AuditResultFailed:
		return "failed"
	default:
		return "success"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AuditResult) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
