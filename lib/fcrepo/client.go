package fcrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
)

// defaults for client configuration
const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 16 * 1024 * 1024 // response bodies are read into memory up to this size
)

// Client dispatches actions against a repository REST endpoint.
// Every call issues exactly one request; there is no retry and no caching.
type Client struct {
	baseURL   string
	requester *requester.Requester
}

// clientConfig holds configuration options during client construction.
type clientConfig struct {
	token      string
	user       string
	password   string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// Option is a functional option for configuring the client.
type Option func(*clientConfig)

// WithToken sets the Bearer token for authentication.
func WithToken(token string) Option {
	return func(cfg *clientConfig) {
		cfg.token = token
	}
}

// WithBasicAuth sets credentials for HTTP basic authentication.
func WithBasicAuth(user, password string) Option {
	return func(cfg *clientConfig) {
		cfg.user = user
		cfg.password = password
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cfg *clientConfig) {
		cfg.userAgent = ua
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithHTTPClient sets a custom http.Client.
// Note: when using WithHTTPClient, the WithTimeout option has no effect
// since timeout is configured on the http.Client directly.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// Resource is a fetched repository resource.
type Resource struct {
	URI         string
	ContentType string
	Links       []Link
	Body        []byte
	Truncated   bool // Body was cut at the response size limit
}

// New creates a new repository client with the given base URL (e.g. http://localhost:8080/rest).
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	// normalize base URL
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	var middlewares []middleware.RoundTripperHandler
	if cfg.token != "" {
		middlewares = append(middlewares, middleware.Header("Authorization", "Bearer "+cfg.token))
	}
	if cfg.user != "" {
		middlewares = append(middlewares, middleware.BasicAuth(cfg.user, cfg.password))
	}
	if cfg.userAgent != "" {
		middlewares = append(middlewares, middleware.Header("User-Agent", cfg.userAgent))
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:   baseURL,
		requester: requester.New(*httpClient, middlewares...),
	}, nil
}

// BaseURL returns the normalized repository base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// URL resolves a repository path or an absolute URI to an absolute request URI.
// Absolute URIs must point inside the repository.
func (c *Client) URL(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if _, ok := c.Path(path); !ok {
			return "", fmt.Errorf("%q: %w", path, ErrOutsideRepository)
		}
		return path, nil
	}
	if path == "" || path == "/" {
		return c.baseURL, nil
	}
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}
	if _, ok := c.Path(u); !ok {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideRepository)
	}
	return u, nil
}

// Path returns the repository-relative path of uri (no leading slash) and true if uri is
// inside the repository. Paths with dot segments are never inside.
func (c *Client) Path(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, c.baseURL)
	if !ok {
		return "", false
	}
	if rest != "" && !strings.HasPrefix(rest, "/") && !strings.HasPrefix(rest, "?") {
		return "", false // shares a prefix with base but is a different path
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if hasDotSegment(rest) {
		return "", false
	}
	return strings.TrimPrefix(rest, "/"), true
}

// hasDotSegment reports whether the escaped path p holds a "." or ".." segment, encoded or not.
func hasDotSegment(p string) bool {
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return true
	}
	for _, seg := range strings.Split(unescaped, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// Dispatch sends the action and decides the navigation from its outcome.
func (c *Client) Dispatch(ctx context.Context, a Action) (Navigation, error) {
	o, err := c.Do(ctx, a)
	if err != nil {
		return Navigation{}, err
	}
	return Decide(a, o)
}

// Do sends exactly one request for the action and returns the raw outcome.
// Transport failures are returned as *RequestError with zero status code.
func (c *Client) Do(ctx context.Context, a Action) (Outcome, error) {
	if a.Target == "" || a.Method == "" {
		return Outcome{}, errors.New("action target and method are required")
	}

	body := a.Body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, a.Method, a.Target, body)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create request: %w", err)
	}
	if a.ContentType != "" {
		req.Header.Set("Content-Type", a.ContentType)
	}

	resp, err := c.requester.Do(req)
	if err != nil {
		return Outcome{}, &RequestError{Label: a.ErrorLabel, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, truncated, err := readBody(resp.Body)
	if err != nil {
		return Outcome{}, &RequestError{Label: a.ErrorLabel, StatusCode: resp.StatusCode,
			Status: resp.Status, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return Outcome{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Location:    resolveLocation(req.URL, resp.Header.Get("Location")),
		Links:       resp.Header.Values("Link"),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
		Truncated:   truncated,
	}, nil
}

// Resolve returns the URI a link to uri should navigate to. Binary resources resolve to
// their description (describedby) resource, everything else to uri itself.
func (c *Client) Resolve(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.requester.Do(req)
	if err != nil {
		return "", &RequestError{Label: "Error resolving resource", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Label: "Error resolving resource", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	links := ParseLinks(resp.Header.Values("Link"))
	if IsNonRDFSource(links) {
		if desc, ok := DescribedBy(links); ok {
			return resolveLocation(req.URL, desc), nil
		}
	}
	return uri, nil
}

// Fetch retrieves a resource with the given Accept header.
func (c *Client) Fetch(ctx context.Context, uri, accept string) (Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return Resource{}, fmt.Errorf("failed to create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.requester.Do(req)
	if err != nil {
		return Resource{}, &RequestError{Label: "Error loading resource", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, truncated, err := readBody(resp.Body)
	if err != nil {
		return Resource{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Resource{}, &RequestError{Label: "Error loading resource", StatusCode: resp.StatusCode,
			Status: resp.Status, Body: body}
	}

	return Resource{
		URI:         uri,
		ContentType: resp.Header.Get("Content-Type"),
		Links:       ParseLinks(resp.Header.Values("Link")),
		Body:        body,
		Truncated:   truncated,
	}, nil
}

// readBody reads up to maxBodySize bytes and reports whether anything was left unread.
func readBody(r io.Reader) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, false, err
	}
	if len(body) > maxBodySize {
		return body[:maxBodySize], true, nil
	}
	return body, false, nil
}

// resolveLocation makes a possibly relative header URI absolute against the request URL.
func resolveLocation(base *url.URL, loc string) string {
	if loc == "" {
		return ""
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return base.ResolveReference(ref).String()
}
