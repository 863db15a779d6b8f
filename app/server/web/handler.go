// Package web implements the fcon console: server rendered pages for repository resources and
// HTMX endpoints turning submitted forms into repository actions.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/fcon/app/enum"
	"github.com/umputun/fcon/app/server/audit"
	"github.com/umputun/fcon/lib/fcrepo"
)

//go:generate moq -out mocks/repository.go -pkg mocks -skip-ensure -fmt goimports . Repository
//go:generate moq -out mocks/authprovider.go -pkg mocks -skip-ensure -fmt goimports . AuthProvider
//go:generate moq -out mocks/auditor.go -pkg mocks -skip-ensure -fmt goimports . Auditor

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Repository is the repository client used by the console.
type Repository interface {
	URL(path string) (string, error)
	Path(uri string) (string, bool)
	Dispatch(ctx context.Context, a fcrepo.Action) (fcrepo.Navigation, error)
	Resolve(ctx context.Context, uri string) (string, error)
	Fetch(ctx context.Context, uri, accept string) (fcrepo.Resource, error)
}

// AuthProvider defines the auth operations used by the console.
type AuthProvider interface {
	Enabled() bool
	RequestUser(r *http.Request) string
	CheckUserPermission(username, path string, needWrite bool) bool
	UserCanWrite(username string) bool
	IsValidUser(username, password string) bool
	CreateSession(ctx context.Context, username string) (string, error)
	InvalidateSession(ctx context.Context, token string)
	LoginTTL() time.Duration
}

// Auditor records submitted actions.
type Auditor interface {
	Record(r *http.Request, e audit.Entry)
}

// Deps holds handler dependencies.
type Deps struct {
	Repo  Repository
	Auth  AuthProvider
	Audit Auditor // optional
}

// Config holds handler configuration.
type Config struct {
	BaseURL string // base URL path for reverse proxy, e.g. /fcon
	Version string
}

// Handler serves the console pages and HTMX endpoints.
type Handler struct {
	Deps
	Config
	tmpl        *template.Template
	highlighter *Highlighter
}

// New creates a console handler and parses the embedded templates.
func New(deps Deps, cfg Config) (*Handler, error) {
	if deps.Repo == nil {
		return nil, errors.New("repository is required")
	}
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{Deps: deps, Config: cfg, tmpl: tmpl, highlighter: NewHighlighter()}, nil
}

// StaticFS returns the embedded static files (css).
func StaticFS() (fs.FS, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to get static files: %w", err)
	}
	return sub, nil
}

// Register adds console routes protected by session auth.
func (h *Handler) Register(r *routegroup.Bundle) {
	r.HandleFunc("GET /{$}", h.handleIndex)
	r.HandleFunc("GET /r/{path...}", h.handleResource)
	r.HandleFunc("GET /web/resolve", h.handleResolve)
	r.HandleFunc("POST /web/actions/{action}", h.handleAction)
	r.HandleFunc("POST /web/theme", h.handleThemeToggle)
}

// RegisterAuth adds routes available only with auth enabled and an active session.
func (h *Handler) RegisterAuth(r *routegroup.Bundle) {
	r.HandleFunc("POST /logout", h.handleLogout)
}

// RegisterLogin adds public login routes; throttle limits concurrent login attempts.
func (h *Handler) RegisterLogin(r *routegroup.Bundle, throttle func(http.Handler) http.Handler) {
	r.HandleFunc("GET /login", h.handleLoginForm)
	r.With(throttle).HandleFunc("POST /login", h.handleLogin)
}

// templateData holds data passed to templates.
type templateData struct {
	Title       string
	Theme       enum.Theme
	BaseURL     string
	Version     string
	AuthEnabled bool
	Username    string
	CanWrite    bool
	Error       string

	resourceData
	modalData
}

// resourceData describes the resource page.
type resourceData struct {
	Path        string // repository path, no leading slash
	URI         string
	ContentType string
	Crumbs      []crumb
	Links       []linkView
	Body        template.HTML
	BodySize    int
	IsBinary    bool
	Description string // console path of the describing resource for binaries
	Status      int    // upstream status when the resource could not be loaded
}

// modalData is rendered into the modal for results and errors.
type modalData struct {
	Label     string
	StatusMsg string
	Content   template.HTML
	Raw       string
}

type crumb struct {
	Name string
	Href string
}

type linkView struct {
	URI  string
	Rel  string
	Href string // resolve endpoint for repository links, the URI itself otherwise
}

// getCurrentUser returns the session user, empty when auth is disabled or no session.
func (h *Handler) getCurrentUser(r *http.Request) string {
	if h.Auth == nil {
		return ""
	}
	return h.Auth.RequestUser(r)
}

// authEnabled reports whether login is configured.
func (h *Handler) authEnabled() bool {
	return h.Auth != nil && h.Auth.Enabled()
}

// canAccess checks permission for the current user; permissive without auth.
func (h *Handler) canAccess(r *http.Request, path string, needWrite bool) bool {
	if !h.authEnabled() {
		return true
	}
	return h.Auth.CheckUserPermission(h.getCurrentUser(r), path, needWrite)
}

// getTheme reads the theme cookie.
func (h *Handler) getTheme(r *http.Request) enum.Theme {
	c, err := r.Cookie("theme")
	if err != nil {
		return enum.ThemeSystem
	}
	theme, err := enum.ParseTheme(c.Value)
	if err != nil {
		return enum.ThemeSystem
	}
	return theme
}

// baseData fills the fields shared by every page.
func (h *Handler) baseData(r *http.Request, title string) templateData {
	username := h.getCurrentUser(r)
	return templateData{
		Title:       title,
		Theme:       h.getTheme(r),
		BaseURL:     h.BaseURL,
		Version:     h.Version,
		AuthEnabled: h.authEnabled(),
		Username:    username,
	}
}

// url returns a URL path with the base URL prefix.
func (h *Handler) url(path string) string {
	return h.BaseURL + path
}

// cookiePath returns the path for cookies, scoped to the base URL.
func (h *Handler) cookiePath() string {
	if h.BaseURL == "" {
		return "/"
	}
	return h.BaseURL + "/"
}

// consolePath maps a repository URI to its console page; URIs outside the repository pass through.
func (h *Handler) consolePath(uri string) string {
	if p, ok := h.Repo.Path(uri); ok {
		return h.url("/r/" + p)
	}
	return uri
}

// resolvePath returns the resolve endpoint for uri.
func (h *Handler) resolvePath(uri string) string {
	return h.url("/web/resolve?uri=" + url.QueryEscape(uri))
}

// record passes an audit entry to the auditor if one is set.
func (h *Handler) record(r *http.Request, e audit.Entry) {
	if h.Audit != nil {
		h.Audit.Record(r, e)
	}
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render executes a named template and logs failures.
func (h *Handler) render(w http.ResponseWriter, name string, data templateData) {
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[ERROR] failed to execute template %s: %v", name, err)
	}
}

// crumbs builds breadcrumbs for a repository path.
func (h *Handler) crumbs(path string) []crumb {
	res := []crumb{{Name: "root", Href: h.url("/r/")}}
	if path == "" {
		return res
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		res = append(res, crumb{Name: p, Href: h.url("/r/" + strings.Join(parts[:i+1], "/"))})
	}
	return res
}
