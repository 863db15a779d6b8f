package web

import (
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/fcon/app/server/internal/cookie"
)

// handleLoginForm renders the login page.
func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", h.baseData(r, "Login"))
}

// handleLogin checks credentials and starts a session.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if !h.Auth.IsValidUser(username, password) {
		log.Printf("[WARN] failed login attempt for user %q from %s", username, r.RemoteAddr)
		data := h.baseData(r, "Login")
		data.Error = "Invalid username or password"
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "login.html", data)
		return
	}

	token, err := h.Auth.CreateSession(r.Context(), username)
	if err != nil {
		log.Printf("[ERROR] failed to create session: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(r, token, int(h.Auth.LoginTTL().Seconds())))
	log.Printf("[INFO] user %q logged in", username)
	http.Redirect(w, r, h.url("/"), http.StatusSeeOther)
}

// handleLogout drops the session and clears the cookies.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	for _, name := range cookie.SessionCookieNames {
		if c, err := r.Cookie(name); err == nil {
			h.Auth.InvalidateSession(r.Context(), c.Value)
		}
	}
	// clear both cookie names, the browser holds at most one of them
	for _, name := range cookie.SessionCookieNames {
		path := h.cookiePath()
		if name == cookie.NameSecure {
			path = "/"
		}
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: path, MaxAge: -1, HttpOnly: true,
			Secure: name == cookie.NameSecure, SameSite: http.SameSiteLaxMode})
	}
	h.redirect(w, r, h.url("/login"))
}

// sessionCookie builds the session cookie, using the __Host- name on HTTPS.
func (h *Handler) sessionCookie(r *http.Request, token string, maxAge int) *http.Cookie {
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	c := &http.Cookie{
		Name:     cookie.NameFallback,
		Value:    token,
		Path:     h.cookiePath(),
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		// __Host- requires Secure and Path=/
		c.Name, c.Path, c.Secure = cookie.NameSecure, "/", true
	}
	return c
}
