package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/fcon/app/server/web/mocks"
	"github.com/umputun/fcon/lib/fcrepo"
)

func TestHandler_HandleResource(t *testing.T) {
	t.Run("container with links", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.FetchFunc = func(_ context.Context, uri, _ string) (fcrepo.Resource, error) {
			return fcrepo.Resource{
				URI:         uri,
				ContentType: "text/turtle; charset=utf-8",
				Body:        []byte("<> <http://purl.org/dc/terms/title> \"Moby Dick\" ."),
				Links: []fcrepo.Link{
					{URI: "http://www.w3.org/ns/ldp#BasicContainer", Rel: []string{"type"}},
					{URI: repoBase + "/books/moby/fcr:versions", Rel: []string{"timemap"}},
				},
			}, nil
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/books/moby", http.NoBody)
		req.SetPathValue("path", "books/moby")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Moby")
		assert.Contains(t, body, "text/turtle; charset=utf-8")
		assert.Contains(t, body, "http://www.w3.org/ns/ldp#BasicContainer")
		assert.Contains(t, body, "/web/resolve?uri="+"http%3A%2F%2Flocalhost%3A8080%2Frest%2Fbooks%2Fmoby%2Ffcr%3Aversions")
		assert.Contains(t, body, `hx-post="/web/actions/sparql-update"`, "write forms shown without auth")
	})

	t.Run("binary with description", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.FetchFunc = func(_ context.Context, uri, _ string) (fcrepo.Resource, error) {
			return fcrepo.Resource{
				URI:         uri,
				ContentType: "image/png",
				Body:        []byte{0x89, 'P', 'N', 'G'},
				Links: []fcrepo.Link{
					{URI: "http://www.w3.org/ns/ldp#NonRDFSource", Rel: []string{"type"}},
					{URI: repoBase + "/img/fcr:metadata", Rel: []string{"describedby"}},
				},
			}, nil
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/img", http.NoBody)
		req.SetPathValue("path", "img")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "binary content, 4 bytes")
		assert.Contains(t, body, `href="/r/img/fcr:metadata"`)
	})

	t.Run("upstream not found", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.FetchFunc = func(context.Context, string, string) (fcrepo.Resource, error) {
			return fcrepo.Resource{}, &fcrepo.RequestError{Label: "Error loading resource", StatusCode: http.StatusNotFound}
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/missing", http.NoBody)
		req.SetPathValue("path", "missing")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Error loading resource")
	})

	t.Run("transport failure", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.FetchFunc = func(context.Context, string, string) (fcrepo.Resource, error) {
			return fcrepo.Resource{}, &fcrepo.RequestError{Err: errors.New("connection refused")}
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/", http.NoBody)
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("forbidden", func(t *testing.T) {
		repo := newTestRepo(t)
		auth := &mocks.AuthProviderMock{
			EnabledFunc:             func() bool { return true },
			RequestUserFunc:         func(*http.Request) string { return "reader" },
			CheckUserPermissionFunc: func(_, path string, _ bool) bool { return path != "private" },
		}
		h := newTestHandler(t, repo, auth)

		req := httptest.NewRequest(http.MethodGet, "/r/private", http.NoBody)
		req.SetPathValue("path", "private")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Access denied")
		assert.Empty(t, repo.FetchCalls())
	})

	t.Run("read only user gets no write forms", func(t *testing.T) {
		auth := &mocks.AuthProviderMock{
			EnabledFunc:             func() bool { return true },
			RequestUserFunc:         func(*http.Request) string { return "reader" },
			CheckUserPermissionFunc: func(_, _ string, needWrite bool) bool { return !needWrite },
		}
		h := newTestHandler(t, nil, auth)

		req := httptest.NewRequest(http.MethodGet, "/r/books", http.NoBody)
		req.SetPathValue("path", "books")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), `hx-post="/web/actions/sparql-update"`)
	})

	t.Run("large body is truncated", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.FetchFunc = func(_ context.Context, uri, _ string) (fcrepo.Resource, error) {
			return fcrepo.Resource{URI: uri, ContentType: "text/plain", Body: []byte(strings.Repeat("a", maxDisplaySize+10))}, nil
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/r/big", http.NoBody)
		req.SetPathValue("path", "big")
		rec := httptest.NewRecorder()
		h.handleResource(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "\n...</pre>")
		assert.NotContains(t, rec.Body.String(), strings.Repeat("a", maxDisplaySize+1))
	})
}

func TestHandler_HandleResolve(t *testing.T) {
	t.Run("binary resolves to description", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.ResolveFunc = func(_ context.Context, uri string) (string, error) {
			return uri + "/fcr:metadata", nil
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/web/resolve?uri=img", http.NoBody)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		h.handleResolve(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/r/img/fcr:metadata", rec.Header().Get("HX-Redirect"))
		require.Len(t, repo.ResolveCalls(), 1)
		assert.Equal(t, repoBase+"/img", repo.ResolveCalls()[0].Uri)
	})

	t.Run("plain request gets see other", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.ResolveFunc = func(_ context.Context, uri string) (string, error) { return uri, nil }
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/web/resolve?uri="+repoBase+"/books", http.NoBody)
		rec := httptest.NewRecorder()
		h.handleResolve(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/r/books", rec.Header().Get("Location"))
	})

	t.Run("outside repository", func(t *testing.T) {
		repo := newTestRepo(t)
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/web/resolve?uri=http://example.com/other", http.NoBody)
		rec := httptest.NewRecorder()
		h.handleResolve(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, repo.ResolveCalls())
	})

	t.Run("resolve failure", func(t *testing.T) {
		repo := newTestRepo(t)
		repo.ResolveFunc = func(context.Context, string) (string, error) {
			return "", &fcrepo.RequestError{Label: "Error loading resource", StatusCode: http.StatusGone, Body: []byte("tombstone")}
		}
		h := newTestHandler(t, repo, nil)

		req := httptest.NewRequest(http.MethodGet, "/web/resolve?uri=gone", http.NoBody)
		rec := httptest.NewRecorder()
		h.handleResolve(rec, req)

		assert.Equal(t, "#modal-content", rec.Header().Get("HX-Retarget"))
		assert.Contains(t, rec.Body.String(), "410 Gone")
		assert.Contains(t, rec.Body.String(), "tombstone")
	})
}

func TestHandler_linkViews(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	res := h.linkViews([]fcrepo.Link{
		{URI: repoBase + "/a", Rel: []string{"describedby"}},
		{URI: "http://www.w3.org/ns/ldp#Resource", Rel: []string{"type", "alternate"}},
	})
	require.Len(t, res, 2)
	assert.Equal(t, "/web/resolve?uri=http%3A%2F%2Flocalhost%3A8080%2Frest%2Fa", res[0].Href)
	assert.Equal(t, "describedby", res[0].Rel)
	assert.Equal(t, "http://www.w3.org/ns/ldp#Resource", res[1].Href)
	assert.Equal(t, "type alternate", res[1].Rel)
}
