package auth

import (
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"
)

// SessionMiddleware returns middleware that requires a valid session cookie.
// Used for console routes. Redirects to loginURL if not authenticated.
// For HTMX requests, uses HX-Redirect header to trigger full page navigation.
func (s *Service) SessionMiddleware(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.RequestUser(r) != "" {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("HX-Request") == "true" {
				// swapping the login form into the target element would break the page
				w.Header().Set("HX-Redirect", loginURL)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
		})
	}
}

// TokenMiddleware returns middleware that requires a known API token or a valid session cookie.
// Accepts X-Auth-Token header or Authorization: Bearer <token>. Used for API routes.
// Path permissions depend on the submitted action and are checked by the handler with CheckRequestPermission.
func (s *Service) TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// session cookie allows the console pages to call the API
		if s.RequestUser(r) != "" {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractToken(r)
		if token == "" || !s.hasToken(token) {
			if token != "" {
				log.Printf("[INFO] rejected unknown token %q for %s %s", MaskToken(token), r.Method, r.URL.Path)
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckRequestPermission checks the session user or API token of the request against a repository path.
// Returns true when auth is disabled.
func (s *Service) CheckRequestPermission(r *http.Request, path string, needWrite bool) bool {
	if s == nil || !s.Enabled() {
		return true
	}
	if username := s.RequestUser(r); username != "" {
		if s.CheckUserPermission(username, path, needWrite) {
			return true
		}
		log.Printf("[INFO] user %q denied %s access to %q", username, accessName(needWrite), path)
		return false
	}
	token := ExtractToken(r)
	if token == "" {
		return false
	}
	if s.CheckTokenPermission(token, path, needWrite) {
		return true
	}
	log.Printf("[INFO] token %q denied %s access to %q", MaskToken(token), accessName(needWrite), path)
	return false
}

// GetRequestActor returns a printable identity of the request for logs.
func (s *Service) GetRequestActor(r *http.Request) string {
	if s == nil || !s.Enabled() {
		return "anonymous"
	}
	if username := s.RequestUser(r); username != "" {
		return "user:" + username
	}
	if token := ExtractToken(r); token != "" {
		return "token:" + MaskToken(token)
	}
	return "anonymous"
}

// MaskToken returns a masked version of token for safe logging (shows first 4 chars).
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}

// ExtractToken extracts API token from request headers.
// Checks X-Auth-Token header first, then Authorization: Bearer header.
// Returns the token string (may be empty if not found).
func ExtractToken(r *http.Request) string {
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		return token
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func accessName(needWrite bool) string {
	if needWrite {
		return "write"
	}
	return "read"
}
