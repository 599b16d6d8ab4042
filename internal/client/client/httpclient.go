package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
)

const defaultTimeout = 10 * time.Second

type HTTPClient struct {
	baseURL     string
	accessToken string
	timeout     time.Duration
	http        *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func NewHTTPClient(baseURL, accessToken string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		timeout:     defaultTimeout,
		http:        &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiError struct {
	Error string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := resp.Status
	var e apiError
	if b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); len(b) > 0 {
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			msg = e.Error
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %d %s", ErrUnavailable, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w: %d %s", ErrRejected, resp.StatusCode, msg)
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func submitPath(kind models.Kind) (string, error) {
	switch kind {
	case models.KindExpense:
		return "/api/expense", nil
	case models.KindIncome:
		return "/api/income", nil
	}
	return "", fmt.Errorf("%w: unknown action type %q", common.ErrMalformedAction, kind)
}

// Submit posts the payload to the create endpoint matching kind.
func (c *HTTPClient) Submit(ctx context.Context, kind models.Kind, p *models.Payload) error {
	if p == nil {
		return fmt.Errorf("%w: nil payload", common.ErrMalformedAction)
	}
	path, err := submitPath(kind)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, p, nil)
}

func (c *HTTPClient) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type profileEnvelope struct {
	Profile *models.Profile `json:"profile"`
}

// Profile returns nil when the user has no profile yet.
func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var env profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &env); err != nil {
		return nil, err
	}
	return env.Profile, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var env profileEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/profile", p, &env); err != nil {
		return nil, err
	}
	if env.Profile == nil {
		return &p, nil
	}
	return env.Profile, nil
}

type avatarUploadRequest struct {
	ContentType string `json:"contentType"`
}

type avatarUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// RequestAvatarUpload asks the server for a presigned PUT URL.
func (c *HTTPClient) RequestAvatarUpload(ctx context.Context, contentType string) (string, string, error) {
	var out avatarUploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/profile/avatar", avatarUploadRequest{ContentType: contentType}, &out); err != nil {
		return "", "", err
	}
	if out.URL == "" {
		return "", "", errors.New("server returned an empty upload url")
	}
	return out.Key, out.URL, nil
}
