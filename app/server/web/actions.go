package web

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/fcon/app/enum"
	"github.com/umputun/fcon/app/server/audit"
	"github.com/umputun/fcon/app/server/internal/actionform"
	"github.com/umputun/fcon/lib/fcrepo"
)

// handleAction builds the submitted action, dispatches it and turns the navigation into htmx headers.
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("action")

	req, err := actionform.Parse(r, kind, h.Repo)
	if err != nil {
		if errors.Is(err, actionform.ErrUnknownAction) {
			http.Error(w, "unknown action", http.StatusNotFound)
			return
		}
		h.record(r, audit.Rejected(kind, enum.AuditResultInvalid, "", err.Error()))
		h.renderError(w, "Invalid request", err.Error())
		return
	}

	username := h.getCurrentUser(r)
	if !h.canAccess(r, req.Path, req.NeedWrite) {
		log.Printf("[INFO] user %q denied %s on %q", username, kind, req.Path)
		h.record(r, audit.Rejected(kind, enum.AuditResultDenied, req.Action.Target, "permission denied"))
		h.renderError(w, "Access denied", fmt.Sprintf("you don't have permission to %s /%s", kind, req.Path))
		return
	}

	nav, err := h.Repo.Dispatch(r.Context(), req.Action)
	h.record(r, audit.Dispatched(req.Action, err))
	if err != nil {
		log.Printf("[WARN] %s %s %s failed: %v", kind, req.Action.Method, req.Action.Target, err)
		h.renderRequestError(w, err)
		return
	}

	log.Printf("[INFO] %s %s %s by %s, %s", kind, req.Action.Method, req.Action.Target, h.identity(username), nav.Kind)
	h.navigate(w, r, nav)
}

// navigate applies a navigation decision to the response.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, nav fcrepo.Navigation) {
	switch nav.Kind {
	case fcrepo.NavFollow:
		h.redirect(w, r, h.consolePath(nav.Target))
	case fcrepo.NavRender:
		w.Header().Set("HX-Retarget", "#modal-content")
		w.Header().Set("HX-Reswap", "innerHTML")
		content, status := string(nav.Content), nav.ContentType
		if nav.Truncated {
			content += "\n..."
			status += ", truncated"
		}
		data := templateData{BaseURL: h.BaseURL, modalData: modalData{
			Label:     "RESULT",
			Content:   h.highlighter.Code(content, nav.ContentType, h.getTheme(r).ChromaStyle()),
			StatusMsg: status,
		}}
		h.render(w, "result", data)
	default:
		if isHTMX(r) {
			w.Header().Set("HX-Refresh", "true")
			w.WriteHeader(http.StatusOK)
			return
		}
		back := r.Referer()
		if back == "" {
			back = h.url("/r/")
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

// renderError renders an error message in the modal.
func (h *Handler) renderError(w http.ResponseWriter, label, msg string) {
	w.Header().Set("HX-Retarget", "#modal-content")
	w.Header().Set("HX-Reswap", "innerHTML")
	data := templateData{BaseURL: h.BaseURL, modalData: modalData{Label: label, Raw: msg}}
	if err := h.tmpl.ExecuteTemplate(w, "error", data); err != nil {
		log.Printf("[ERROR] failed to execute error template: %v", err)
		http.Error(w, label+": "+msg, http.StatusBadRequest)
	}
}

// renderRequestError shows a failed repository request with its label, status and raw response body.
func (h *Handler) renderRequestError(w http.ResponseWriter, err error) {
	var reqErr *fcrepo.RequestError
	if !errors.As(err, &reqErr) {
		h.renderError(w, "Error", err.Error())
		return
	}

	w.Header().Set("HX-Retarget", "#modal-content")
	w.Header().Set("HX-Reswap", "innerHTML")
	data := templateData{BaseURL: h.BaseURL, modalData: modalData{Label: reqErr.Label, Raw: string(reqErr.Body)}}
	if reqErr.StatusCode != 0 {
		data.StatusMsg = fmt.Sprintf("%d %s", reqErr.StatusCode, http.StatusText(reqErr.StatusCode))
	} else if reqErr.Err != nil {
		data.StatusMsg = "request failed"
		data.Raw = reqErr.Err.Error()
	}
	h.render(w, "error", data)
}

// identity returns the actor name for logs.
func (h *Handler) identity(username string) string {
	if username == "" {
		return "anonymous"
	}
	return username
}
