package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
)

// Transport handles low-level HTTP and authentication against the
// ERPNext REST API. It never retries; callers decide.
type Transport struct {
	baseURL    string
	authHeader string
	client     *http.Client
}

// NewTransport validates the settings and builds the transport. Exactly
// one credential form is used: the single token string wins over the
// key/secret pair.
func NewTransport(s config.BridgeSettings) (*Transport, error) {
	if s.BaseURL == "" {
		return nil, fmt.Errorf("%w: base url missing", ErrNotConfigured)
	}

	var auth string
	switch {
	case s.APIToken != "":
		auth = s.APIToken
		if !strings.Contains(auth, " ") {
			auth = "token " + auth
		}
	case s.APIKey != "" && s.APISecret != "":
		auth = fmt.Sprintf("token %s:%s", s.APIKey, s.APISecret)
	default:
		return nil, fmt.Errorf("%w: credentials missing", ErrNotConfigured)
	}

	return &Transport{
		baseURL:    strings.TrimRight(s.BaseURL, "/"),
		authHeader: auth,
		client: &http.Client{
			Timeout: time.Duration(s.Timeout()) * time.Second,
		},
	}, nil
}

// BaseURL is the normalized remote root, for print-view URL building.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

func (t *Transport) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(t.baseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (t *Transport) Get(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	return t.do(ctx, http.MethodGet, path, query, nil)
}

func (t *Transport) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return t.do(ctx, http.MethodPost, path, nil, body)
}

func (t *Transport) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return t.do(ctx, http.MethodPut, path, nil, body)
}

func (t *Transport) do(ctx context.Context, method, path string, query map[string]string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.buildURL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", t.authHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", ErrAuth, resp.StatusCode)
	case resp.StatusCode >= 400:
		// body may be JSON or text; surfaced verbatim
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: non-json body", ErrFormat)
	}
	return data, nil
}
