package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError carries the failure message returned by an auth endpoint
// ({"msg": "..."}). It is surfaced to the user as an inline form error.
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api (%d): %s", e.StatusCode, e.Msg)
}

// IsAPIError reports whether err (or any error in its chain) is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Credentials is the signin request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the signup request body.
type SignupRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// tokenResponse is the success payload of both auth endpoints.
type tokenResponse struct {
	Token string `json:"token"`
}

// errorResponse is the failure payload of both auth endpoints.
type errorResponse struct {
	Msg string `json:"msg"`
}

// Client is a thin HTTP client for the remote auth API. The server is an
// opaque collaborator: each endpoint returns either a token or an error
// message. The client handles JSON marshaling and automatic retry with
// backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new auth API client. The baseURL is the root URL
// of the API service.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// SignIn exchanges email/password for a token.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	return c.postForToken(ctx, "/api/users/signin", creds)
}

// SignUp registers a new account and returns its token.
func (c *Client) SignUp(ctx context.Context, req SignupRequest) (string, error) {
	return c.postForToken(ctx, "/api/users/signup", req)
}

// postForToken posts a JSON body and decodes either a token or an error
// payload, retrying with backoff on rate limiting.
func (c *Client) postForToken(ctx context.Context, path string, body any) (string, error) {
	url := c.baseURL + path

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, url, bytes.NewReader(data),
		)
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("executing request POST %s: %w", path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on POST %s", path)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(waitDuration):
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var tok tokenResponse
			if err := json.Unmarshal(respBody, &tok); err != nil {
				return "", fmt.Errorf("decoding token response: %w", err)
			}
			if tok.Token == "" {
				return "", &APIError{
					StatusCode: resp.StatusCode,
					Msg:        "server returned no token",
				}
			}
			return tok.Token, nil
		}

		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Msg == "" {
			apiErr.Msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Msg: apiErr.Msg}
	}

	return "", fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

// retryAfterDuration computes the wait before a retry, honoring the
// Retry-After header when present and falling back to exponential
// backoff.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(1<<attempt) * time.Second
}
