// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfetrack/pfetrack/lib/secret"
)

// maxResponseSize bounds API response body reads: 16 MB. Legitimate
// JSON payloads are orders of magnitude smaller; the bound only
// protects against a misbehaving server. Binary report downloads
// stream through io.Copy and are not subject to it.
const maxResponseSize int64 = 16 << 20

// defaultTimeout is applied when ClientConfig.Timeout is zero. A hung
// login must become a transport error, not a hung caller.
const defaultTimeout = 30 * time.Second

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// ServerURL is the base URL of the portal API, including any path
	// prefix (e.g., "https://portal.example.edu/api").
	ServerURL string
	// HTTPClient is used for all requests. If nil, a client with
	// Timeout applied is constructed.
	HTTPClient *http.Client
	// Timeout bounds each request when HTTPClient is nil. Zero means
	// defaultTimeout.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is the public channel: it talks to the portal without a
// credential and is shared by every Session created from it. It never
// attaches an Authorization header on its own — credential injection
// is the Session's job, per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated portal client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("portal: ServerURL is required")
	}
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("portal: invalid ServerURL %q: %w", config.ServerURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login authenticates with username and password. The password Buffer
// is read but not closed — the caller retains ownership. On success
// the response carries the bearer token and the user's identity; the
// Client itself stores neither.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer) (*LoginResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("portal: username is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("portal: password is required for login")
	}

	// The password becomes a heap string at the JSON serialization
	// boundary. The copy is short-lived — it exists only for the
	// duration of the HTTP call.
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", LoginRequest{
		Username: username,
		Password: password.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("portal: login failed: %w", err)
	}

	var response LoginResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("portal: failed to parse login response: %w", err)
	}
	if response.Token == "" {
		return nil, fmt.Errorf("portal: login response carried no token")
	}

	c.logger.Info("logged in to portal",
		"username", username,
		"user_id", response.User.ID,
		"role", response.User.Role,
	)
	return &response, nil
}

// Register creates a new account. Registration does not establish a
// session — the caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*User, error) {
	if request.Username == "" {
		return nil, fmt.Errorf("portal: username is required for registration")
	}
	if request.Password == "" {
		return nil, fmt.Errorf("portal: password is required for registration")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", request)
	if err != nil {
		return nil, fmt.Errorf("portal: registration failed: %w", err)
	}

	var created User
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("portal: failed to parse register response: %w", err)
	}

	c.logger.Info("registered portal account",
		"username", request.Username,
		"user_id", created.ID,
	)
	return &created, nil
}

// doRequest performs an HTTP request and returns the response body.
// On 2xx, returns the body. On any other status, returns an *APIError
// carrying the server's message when it sent one. token may be empty
// for public endpoints; query may be nil.
func (c *Client) doRequest(ctx context.Context, method, path, token string, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		if encoded := query[0].Encode(); encoded != "" {
			requestURL += "?" + encoded
		}
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, c.asAPIError(response.StatusCode, responseBody)
}

// doRequestRaw performs a request with a prebuilt body and content
// type, for multipart report uploads.
func (c *Client) doRequestRaw(ctx context.Context, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, c.asAPIError(response.StatusCode, responseBody)
}

// doDownload performs a GET and streams the binary response body into
// w, returning the number of bytes written. Error responses go through
// the same normalization as doRequest.
func (c *Client) doDownload(ctx context.Context, path, token string, w io.Writer) (int64, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("request to GET %s failed: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
		return 0, c.asAPIError(response.StatusCode, errorBody)
	}

	written, err := io.Copy(w, response.Body)
	if err != nil {
		return written, fmt.Errorf("streaming download from %s: %w", path, err)
	}
	return written, nil
}

// asAPIError converts a non-2xx response into an *APIError. The
// portal's error responses share one JSON shape ({"message": ...});
// a non-JSON body still produces an APIError, just without a server
// message, so callers see one failure type either way.
func (c *Client) asAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
