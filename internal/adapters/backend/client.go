package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/platform/obs"
	"strings"
	"time"
)

const maxErrorBody = 1 << 10

// Client fetches precomputed route scenarios from the optimization backend.
// Each call is a single GET; failures are not retried.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	message string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base URL is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL %q: %w", baseURL, err)
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		message: connectionMessage(u),
	}, nil
}

func connectionMessage(u *url.URL) string {
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return fmt.Sprintf("Failed to connect to backend. Is it running on port %s?", port)
}

// FetchRoutes returns the route data computed for mode.
// Absent or null fields in the response decode to empty collections.
// Every failure is returned as a *ConnectionError.
func (c *Client) FetchRoutes(ctx context.Context, mode domain.Mode) (_ domain.RouteData, err error) {
	defer obs.Time(ctx, "backend.FetchRoutes")(&err)

	req, err := c.newRequest(ctx, "/get_data", url.Values{"mode": {mode.String()}})
	if err != nil {
		return domain.RouteData{}, c.fail(KindUnreachable, err)
	}

	resp, err := c.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return domain.RouteData{}, c.fail(KindStatus, err)
		}
		return domain.RouteData{}, c.fail(KindUnreachable, err)
	}
	defer resp.Body.Close()

	var data domain.RouteData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.RouteData{}, c.fail(KindMalformed, fmt.Errorf("decode get_data response: %w", err))
	}

	return data.Normalize(), nil
}

// Ping checks that the backend answers at all; any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, "/", nil)
	if err != nil {
		return err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func (c *Client) fail(kind ErrorKind, err error) *ConnectionError {
	return &ConnectionError{Kind: kind, Message: c.message, Err: err}
}
