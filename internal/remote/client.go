// Package remote fetches patch containers from the randomizer service.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joshuapare/ipskit/internal/session"
)

const (
	// PatchPath is the service endpoint that returns a container.
	PatchPath = "/patch"

	// MaxPatchSize bounds the response body. A container can address 16 MiB
	// and carries per-record overhead on top of that.
	MaxPatchSize = 64 << 20

	defaultTimeout = 2 * time.Minute
)

// ErrTooLarge is returned when the service sends more than MaxPatchSize bytes.
var ErrTooLarge = errors.New("remote: patch exceeds size limit")

// StatusError reports a non-200 reply from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: patch service returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("remote: patch service returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Client talks to one patch service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL with a bounded request timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// FetchPatch asks the service for the container matching opts. The reply is
// returned as-is; callers hand it to ips.Open for validation.
func (c *Client) FetchPatch(ctx context.Context, opts session.Options) ([]byte, error) {
	if opts.Seed == "" {
		return nil, errors.New("remote: seed is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("seed", opts.Seed)
	form.Set("flags", opts.Flags())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request patch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPatchSize+1))
	if err != nil {
		return nil, fmt.Errorf("remote: read patch: %w", err)
	}
	if len(data) > MaxPatchSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + PatchPath
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
