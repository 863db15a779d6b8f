package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-pkgz/routegroup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/fcon/app/server/web/mocks"
	"github.com/umputun/fcon/lib/fcrepo"
)

const repoBase = "http://localhost:8080/rest"

// newTestRepo returns a repository mock resolving paths like the real client.
func newTestRepo(t *testing.T) *mocks.RepositoryMock {
	t.Helper()
	c, err := fcrepo.New(repoBase)
	require.NoError(t, err)
	return &mocks.RepositoryMock{
		URLFunc:  c.URL,
		PathFunc: c.Path,
		FetchFunc: func(_ context.Context, uri, _ string) (fcrepo.Resource, error) {
			return fcrepo.Resource{URI: uri, ContentType: "text/turtle", Body: []byte("<> a <http://example.com/Thing> .")}, nil
		},
	}
}

// newTestAuth returns an auth mock with auth disabled.
func newTestAuth() *mocks.AuthProviderMock {
	return &mocks.AuthProviderMock{
		EnabledFunc:             func() bool { return false },
		RequestUserFunc:         func(*http.Request) string { return "" },
		CheckUserPermissionFunc: func(string, string, bool) bool { return true },
		UserCanWriteFunc:        func(string) bool { return true },
	}
}

func newTestHandler(t *testing.T, repo *mocks.RepositoryMock, auth *mocks.AuthProviderMock) *Handler {
	t.Helper()
	if repo == nil {
		repo = newTestRepo(t)
	}
	if auth == nil {
		auth = newTestAuth()
	}
	h, err := New(Deps{Repo: repo, Auth: auth}, Config{Version: "test"})
	require.NoError(t, err)
	return h
}

func TestNew(t *testing.T) {
	_, err := New(Deps{}, Config{})
	require.Error(t, err)

	h, err := New(Deps{Repo: newTestRepo(t), Auth: newTestAuth()}, Config{BaseURL: "/fcon"})
	require.NoError(t, err)
	assert.NotNil(t, h.tmpl.Lookup("base.html"))
	assert.NotNil(t, h.tmpl.Lookup("error"))
	assert.NotNil(t, h.tmpl.Lookup("result"))
	assert.NotNil(t, h.tmpl.Lookup("login.html"))
}

func TestStaticFS(t *testing.T) {
	sfs, err := StaticFS()
	require.NoError(t, err)
	f, err := sfs.Open("style.css")
	require.NoError(t, err)
	_ = f.Close()
}

func TestHandler_Register(t *testing.T) {
	repo := newTestRepo(t)
	repo.DispatchFunc = func(context.Context, fcrepo.Action) (fcrepo.Navigation, error) {
		return fcrepo.Navigation{Kind: fcrepo.NavReload}, nil
	}
	h := newTestHandler(t, repo, nil)

	router := routegroup.New(http.NewServeMux())
	h.Register(router)

	t.Run("index redirects to root page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/r/", rec.Header().Get("Location"))
	})

	t.Run("resource page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/r/books/moby", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/books/moby")
		require.Len(t, repo.FetchCalls(), 1)
		assert.Equal(t, repoBase+"/books/moby", repo.FetchCalls()[0].Uri)
		assert.Equal(t, "text/turtle", repo.FetchCalls()[0].Accept)
	})

	t.Run("action", func(t *testing.T) {
		form := url.Values{"resource": {"books"}, "query": {"INSERT DATA {}"}}
		req := httptest.NewRequest(http.MethodPost, "/web/actions/sparql-update", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	})
}

func TestHandler_crumbs(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	h.BaseURL = "/fcon"

	assert.Equal(t, []crumb{{Name: "root", Href: "/fcon/r/"}}, h.crumbs(""))
	assert.Equal(t, []crumb{
		{Name: "root", Href: "/fcon/r/"},
		{Name: "books", Href: "/fcon/r/books"},
		{Name: "moby", Href: "/fcon/r/books/moby"},
	}, h.crumbs("books/moby/"))
}

func TestHandler_consolePath(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	assert.Equal(t, "/r/books/moby", h.consolePath(repoBase+"/books/moby"))
	assert.Equal(t, "/r/", h.consolePath(repoBase))
	assert.Equal(t, "http://example.com/x", h.consolePath("http://example.com/x"))

	h.BaseURL = "/fcon"
	assert.Equal(t, "/fcon/r/books", h.consolePath(repoBase+"/books"))
}

func TestHandler_HandleThemeToggle(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/web/theme", http.NoBody)
	req.AddCookie(&http.Cookie{Name: "theme", Value: "light"})
	rec := httptest.NewRecorder()
	h.handleThemeToggle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "theme", cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)
}

func TestHandler_Login(t *testing.T) {
	auth := &mocks.AuthProviderMock{
		EnabledFunc:     func() bool { return true },
		RequestUserFunc: func(*http.Request) string { return "" },
		IsValidUserFunc: func(username, password string) bool { return username == "admin" && password == "secret" },
		CreateSessionFunc: func(context.Context, string) (string, error) {
			return "session-token", nil
		},
		LoginTTLFunc:          func() time.Duration { return time.Hour },
		InvalidateSessionFunc: func(context.Context, string) {},
	}
	h := newTestHandler(t, nil, auth)

	t.Run("login form", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.handleLoginForm(rec, httptest.NewRequest(http.MethodGet, "/login", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="password"`)
	})

	t.Run("valid credentials", func(t *testing.T) {
		form := url.Values{"username": {"admin"}, "password": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.handleLogin(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "fcon-auth", cookies[0].Name)
		assert.Equal(t, "session-token", cookies[0].Value)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("https uses host cookie", func(t *testing.T) {
		form := url.Values{"username": {"admin"}, "password": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-Proto", "https")
		rec := httptest.NewRecorder()
		h.handleLogin(rec, req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "__Host-fcon-auth", cookies[0].Name)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, "/", cookies[0].Path)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		form := url.Values{"username": {"admin"}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.handleLogin(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password")
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("logout", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", http.NoBody)
		req.AddCookie(&http.Cookie{Name: "fcon-auth", Value: "session-token"})
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		h.handleLogout(rec, req)

		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
		calls := auth.InvalidateSessionCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "session-token", calls[0].Token)
		for _, c := range rec.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge, c.Name)
		}
	})
}
