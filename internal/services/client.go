package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the production Chosic tools API root.
const DefaultBaseURL = "https://www.chosic.com/api/tools"

// DefaultTimeout bounds each individual request.
const DefaultTimeout = 10 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// maxErrorBody caps how much of an error response body ends up in messages.
const maxErrorBody = 500

// APIError is the single failure type the transport surfaces: timeouts,
// connection errors, non-2xx statuses, and unparseable bodies all arrive as
// one of these. StatusCode is 0 when no HTTP response was received.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Client talks to the Chosic tools API with the browser-session posture the
// upstream expects: a real user agent, same-origin headers, and the cookie
// and nonce captured from a live browser session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	cookies    []*http.Cookie
	logger     *log.Logger
}

// NewClient creates a transport for the given API root. An empty baseURL
// falls back to [DefaultBaseURL]; a nil http.Client gets a fresh one with
// [DefaultTimeout].
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		headers: map[string]string{
			"User-Agent":       defaultUserAgent,
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"Origin":           "https://www.chosic.com",
			"Referer":          "https://www.chosic.com/playlist-generator/",
			"X-Requested-With": "XMLHttpRequest",
		},
	}
}

// SetCookie parses a raw "k=v; k2=v2" cookie header and attaches every pair
// to subsequent requests. Malformed fragments are skipped.
func (c *Client) SetCookie(cookieHeader string) {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		c.cookies = append(c.cookies, &http.Cookie{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
}

// SetNonce attaches the WordPress REST nonce header to subsequent requests.
func (c *Client) SetNonce(nonce string) {
	if nonce == "" {
		return
	}
	c.headers["X-WP-Nonce"] = nonce
}

// SetApp attaches the app header to every subsequent request.
func (c *Client) SetApp(app string) {
	if app == "" {
		return
	}
	c.headers["app"] = app
}

// SetUserAgent overrides the default browser user agent.
func (c *Client) SetUserAgent(ua string) {
	if ua == "" {
		return
	}
	c.headers["User-Agent"] = ua
}

// Request performs a request and returns the decoded JSON body.
func (c *Client) Request(ctx context.Context, method, endpoint string, params map[string]any) (any, error) {
	data, _, err := c.RequestWithHeaders(ctx, method, endpoint, params)
	return data, err
}

// RequestWithHeaders performs a request and returns the decoded JSON body
// plus the response headers. Params are sent as the query string for GET and
// as a JSON body otherwise.
func (c *Client) RequestWithHeaders(ctx context.Context, method, endpoint string, params map[string]any) (any, http.Header, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			query := url.Values{}
			for k, v := range NormalizeParams(params) {
				query.Set(k, paramString(v))
			}
			fullURL += "?" + query.Encode()
		}
	} else if len(params) > 0 {
		encoded, err := json.Marshal(NormalizeParams(params))
		if err != nil {
			return nil, nil, &APIError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		body = strings.NewReader(string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, nil, &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// These two endpoints refuse requests without the app marker.
	lower := strings.ToLower(endpoint)
	if strings.Contains(lower, "genre-releases") || strings.Contains(lower, "top-playlists") {
		req.Header.Set("app", "new_releases")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Error("request timed out", "url", fullURL)
			return nil, nil, &APIError{Message: "request timed out"}
		}
		c.logger.Error("connection failed", "url", fullURL, "error", err)
		return nil, nil, &APIError{Message: fmt.Sprintf("connection failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &APIError{Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP error %d", resp.StatusCode)
		if len(raw) > 0 {
			text := string(raw)
			if len(text) > maxErrorBody {
				text = text[:maxErrorBody]
			}
			msg = msg + ": " + text
		}
		c.logger.Error("request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Error("invalid JSON response", "url", fullURL, "error", err)
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: "invalid JSON response"}
	}

	return data, resp.Header, nil
}

// Handshake verifies the session is accepted upstream. It never returns an
// error: callers treat false as "credentials missing or stale".
func (c *Client) Handshake(ctx context.Context) bool {
	if _, err := c.Request(ctx, http.MethodPost, "handshake/", nil); err != nil {
		c.logger.Debug("handshake failed", "error", err)
		return false
	}
	c.logger.Debug("handshake ok")
	return true
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
