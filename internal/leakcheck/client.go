// Package leakcheck is a small HTTP client for the LeakCheck breach search
// service: the key-authenticated v2 API and the public, unauthenticated one.
package leakcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/margoul1Malin/HakBoard/internal/models"
)

const (
	// DefaultBaseURL is the LeakCheck service root used when none is configured.
	DefaultBaseURL = "https://leakcheck.io"

	apiKeyLength    = 40
	planRequiredMsg = "Active plan required"
)

var (
	// ErrInvalidAPIKey is returned by NewPrivateClient for a malformed key.
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrPlanRequired matches API errors caused by the key lacking a paid plan.
	ErrPlanRequired = errors.New(planRequiredMsg)
)

// APIError is a failure reported by the service in its JSON body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leakcheck: %s (status %d)", e.Message, e.StatusCode)
}

// Is lets errors.Is(err, ErrPlanRequired) match plan-required responses.
func (e *APIError) Is(target error) bool {
	return target == ErrPlanRequired && strings.Contains(e.Message, planRequiredMsg)
}

// PrivateClient queries the v2 API with an API key.
type PrivateClient struct {
	client  *http.Client
	baseURL *url.URL
	apiKey  string
}

// NewPrivateClient validates the key and base URL. A nil client means
// http.DefaultClient.
func NewPrivateClient(client *http.Client, baseURL, apiKey string) (*PrivateClient, error) {
	if len(apiKey) != apiKeyLength {
		return nil, fmt.Errorf("%w: expected %d characters", ErrInvalidAPIKey, apiKeyLength)
	}
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &PrivateClient{client: client, baseURL: u, apiKey: apiKey}, nil
}

// Lookup searches query restricted to queryType, returning at most limit
// records exactly as the service returned them.
func (c *PrivateClient) Lookup(ctx context.Context, query, queryType string, limit int) ([]models.Record, error) {
	u := c.baseURL.JoinPath("api", "v2", "query", query)
	q := url.Values{}
	if queryType != "" {
		q.Set("type", queryType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	var body struct {
		Success bool            `json:"success"`
		Error   string          `json:"error"`
		Result  []models.Record `json:"result"`
	}
	status, err := doJSON(c.client, req, &body)
	if err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, &APIError{StatusCode: status, Message: cmpMessage(body.Error, status)}
	}
	return body.Result, nil
}

// PublicSource is one breached site reported by the public API.
type PublicSource struct {
	Name string `json:"name"`
	// Date is "YYYY-MM" when known.
	Date string `json:"date"`
}

// PublicResult is the raw public API answer.
type PublicResult struct {
	Success bool           `json:"success"`
	Found   int            `json:"found"`
	Fields  []string       `json:"fields"`
	Sources []PublicSource `json:"sources"`
	Error   string         `json:"error,omitempty"`
}

// PublicClient queries the unauthenticated public API.
type PublicClient struct {
	client  *http.Client
	baseURL *url.URL
}

// NewPublicClient validates the base URL. A nil client means http.DefaultClient.
func NewPublicClient(client *http.Client, baseURL string) (*PublicClient, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &PublicClient{client: client, baseURL: u}, nil
}

// Lookup returns the raw public result for query. An unsuccessful answer is
// returned as-is, not as an error.
func (c *PublicClient) Lookup(ctx context.Context, query string) (*PublicResult, error) {
	u := c.baseURL.JoinPath("api", "public")
	u.RawQuery = url.Values{"check": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	var res PublicResult
	if _, err := doJSON(c.client, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", raw)
	}
	return u, nil
}

// doJSON sends req and decodes the body into dst whatever the status code,
// since the service reports failures as JSON.
func doJSON(client *http.Client, req *http.Request, dst any) (int, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return resp.StatusCode, fmt.Errorf("server error: status %d", resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("invalid response: %w", err)
	}
	return resp.StatusCode, nil
}

func cmpMessage(msg string, status int) string {
	if msg != "" {
		return msg
	}
	return "unsuccessful response: " + http.StatusText(status)
}
