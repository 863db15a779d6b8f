// Package cookie provides shared cookie-related constants.
package cookie

const (
	// NameSecure is the cookie name with __Host- prefix for HTTPS security.
	// requires HTTPS, secure flag, and path="/".
	NameSecure = "__Host-fcon-auth"

	// NameFallback is the cookie name for HTTP/development environments.
	NameFallback = "fcon-auth"
)

// SessionCookieNames defines cookie names for session authentication.
// Order matters: __Host- prefix is tried first, then the fallback used on plain HTTP.
var SessionCookieNames = []string{NameSecure, NameFallback}
