// Package api implements the JSON variant of the console actions for scripts and non-browser clients.
package api

import (
	"context"
	"errors"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/fcon/app/enum"
	"github.com/umputun/fcon/app/server/audit"
	"github.com/umputun/fcon/app/server/internal/actionform"
	"github.com/umputun/fcon/lib/fcrepo"
)

//go:generate moq -out mocks/repository.go -pkg mocks -skip-ensure -fmt goimports . Repository
//go:generate moq -out mocks/authprovider.go -pkg mocks -skip-ensure -fmt goimports . AuthProvider
//go:generate moq -out mocks/auditor.go -pkg mocks -skip-ensure -fmt goimports . Auditor

// Repository dispatches actions against the repository.
type Repository interface {
	URL(path string) (string, error)
	Path(uri string) (string, bool)
	Dispatch(ctx context.Context, a fcrepo.Action) (fcrepo.Navigation, error)
}

// AuthProvider checks request permissions on repository paths.
type AuthProvider interface {
	CheckRequestPermission(r *http.Request, path string, needWrite bool) bool
}

// Auditor records submitted actions.
type Auditor interface {
	Record(r *http.Request, e audit.Entry)
}

// Deps holds handler dependencies.
type Deps struct {
	Repo  Repository
	Auth  AuthProvider // optional, nil allows everything
	Audit Auditor      // optional
}

// Handler serves the action API.
type Handler struct {
	Deps
}

// NavigationResponse is the successful result of an action.
type NavigationResponse struct {
	Navigation  fcrepo.NavKind `json:"navigation"`
	Target      string         `json:"target,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	Content     string         `json:"content,omitempty"`
	Truncated   bool           `json:"truncated,omitempty"` // content was cut at the response size limit
}

// ErrorResponse describes a request the repository refused or never answered.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"` // upstream status, zero for transport errors
	Body   string `json:"body,omitempty"`   // raw upstream response body
}

// New creates the API handler.
func New(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

// Register adds the API routes.
func (h *Handler) Register(r *routegroup.Bundle) {
	r.HandleFunc("POST /actions/{action}", h.handleAction)
}

// handleAction is POST /actions/{action}. Accepts the console form fields, urlencoded or multipart.
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("action")

	req, err := actionform.Parse(r, kind, h.Repo)
	if err != nil {
		if errors.Is(err, actionform.ErrUnknownAction) {
			rest.SendErrorJSON(w, r, log.Default(), http.StatusNotFound, err, "unknown action")
			return
		}
		h.record(r, audit.Rejected(kind, enum.AuditResultInvalid, "", err.Error()))
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, err.Error())
		return
	}

	if h.Auth != nil && !h.Auth.CheckRequestPermission(r, req.Path, req.NeedWrite) {
		h.record(r, audit.Rejected(kind, enum.AuditResultDenied, req.Action.Target, "permission denied"))
		rest.SendErrorJSON(w, r, log.Default(), http.StatusForbidden, nil, "access denied")
		return
	}

	nav, err := h.Repo.Dispatch(r.Context(), req.Action)
	h.record(r, audit.Dispatched(req.Action, err))
	if err != nil {
		log.Printf("[WARN] api %s %s %s failed: %v", kind, req.Action.Method, req.Action.Target, err)
		renderRequestError(w, err)
		return
	}

	log.Printf("[INFO] api %s %s %s, %s", kind, req.Action.Method, req.Action.Target, nav.Kind)
	resp := NavigationResponse{Navigation: nav.Kind}
	switch nav.Kind {
	case fcrepo.NavFollow:
		resp.Target = nav.Target
	case fcrepo.NavRender:
		resp.ContentType = nav.ContentType
		resp.Content = string(nav.Content)
		resp.Truncated = nav.Truncated
	}
	rest.RenderJSON(w, resp)
}

// renderRequestError responds with the upstream status, or 502 when the repository was unreachable.
func renderRequestError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusBadGateway

	var reqErr *fcrepo.RequestError
	if errors.As(err, &reqErr) {
		resp.Error = reqErr.Label
		if resp.Error == "" {
			resp.Error = "request failed"
		}
		resp.Body = string(reqErr.Body)
		if reqErr.StatusCode != 0 {
			status, resp.Status = reqErr.StatusCode, reqErr.StatusCode
		} else if reqErr.Err != nil {
			resp.Body = reqErr.Err.Error()
		}
	}

	rest.EncodeJSON(w, status, resp)
}

func (h *Handler) record(r *http.Request, e audit.Entry) {
	if h.Audit != nil {
		h.Audit.Record(r, e)
	}
}
