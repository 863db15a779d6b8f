package web

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/fcon/lib/fcrepo"
)

// acceptRDF is requested for resource pages so containers come back as readable turtle.
const acceptRDF = "text/turtle"

// maxDisplaySize is the largest body shown on a resource page.
const maxDisplaySize = 512 * 1024

// handleIndex redirects to the repository root page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.url("/r/"), http.StatusFound)
}

// handleResource renders the page of a repository resource.
func (h *Handler) handleResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.PathValue("path"), "/")

	if !h.canAccess(r, path, false) {
		w.WriteHeader(http.StatusForbidden)
		data := h.baseData(r, "Forbidden")
		data.Error = "Access denied: you don't have read permission for this resource"
		data.Crumbs = h.crumbs(path)
		h.render(w, "base.html", data)
		return
	}

	data := h.baseData(r, "/"+path)
	data.Path = path
	data.Crumbs = h.crumbs(path)
	data.CanWrite = h.canAccess(r, path, true)

	uri, err := h.Repo.URL(path)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	data.URI = uri

	res, err := h.Repo.Fetch(r.Context(), uri, acceptRDF)
	if err != nil {
		var reqErr *fcrepo.RequestError
		status := http.StatusBadGateway
		if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
			status = reqErr.StatusCode
		}
		log.Printf("[WARN] failed to load %s: %v", uri, err)
		data.Status = status
		data.Error = err.Error()
		w.WriteHeader(status)
		h.render(w, "base.html", data)
		return
	}

	data.ContentType = res.ContentType
	data.BodySize = len(res.Body)
	data.Links = h.linkViews(res.Links)
	if desc, ok := fcrepo.DescribedBy(res.Links); ok && fcrepo.IsNonRDFSource(res.Links) {
		data.Description = h.consolePath(desc)
	}

	switch {
	case !IsText(res.ContentType):
		data.IsBinary = true
	case len(res.Body) > maxDisplaySize:
		data.Body = plain(string(res.Body[:maxDisplaySize]) + "\n...")
	default:
		data.Body = h.highlighter.Code(string(res.Body), res.ContentType, data.Theme.ChromaStyle())
	}

	log.Printf("[DEBUG] view %s (%d bytes, %s)", uri, len(res.Body), res.ContentType)
	h.render(w, "base.html", data)
}

// handleResolve follows a repository link the way a click on it does: binaries lead to their description.
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("uri"))
	uri, err := h.Repo.URL(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	path, _ := h.Repo.Path(uri)
	if !h.canAccess(r, path, false) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	resolved, err := h.Repo.Resolve(r.Context(), uri)
	if err != nil {
		log.Printf("[WARN] failed to resolve %s: %v", uri, err)
		h.renderRequestError(w, err)
		return
	}
	h.redirect(w, r, h.consolePath(resolved))
}

// handleThemeToggle cycles the theme and reloads the page.
func (h *Handler) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := h.getTheme(r).Toggle()
	http.SetCookie(w, &http.Cookie{
		Name:     "theme",
		Value:    newTheme.String(),
		Path:     h.cookiePath(),
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// trigger full page refresh
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
}

// linkViews prepares Link relations for display. Repository links go through the resolve endpoint.
func (h *Handler) linkViews(links []fcrepo.Link) []linkView {
	res := make([]linkView, 0, len(links))
	for _, l := range links {
		lv := linkView{URI: l.URI, Rel: strings.Join(l.Rel, " "), Href: l.URI}
		if _, ok := h.Repo.Path(l.URI); ok {
			lv.Href = h.resolvePath(l.URI)
		}
		res = append(res, lv)
	}
	return res
}

// redirect navigates to target, with HX-Redirect for htmx requests.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
