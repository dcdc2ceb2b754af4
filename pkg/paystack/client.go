package paystack

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

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Paystack API endpoint.
const DefaultBaseURL = "https://api.paystack.co"

// Config configures the Paystack client.
type Config struct {
	SecretKey  string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Bank is one entry of the Paystack bank list.
type Bank struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Code     string `json:"code"`
	LongCode string `json:"longcode"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
	Active   bool   `json:"active"`
}

// APIError is returned for non-2xx responses or envelopes with status=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("paystack request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("paystack: %s", e.Message)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the Paystack REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// New builds a client. The secret key is mandatory.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("paystack secret key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With().Str("component", "paystack_client").Logger(),
	}, nil
}

// ListBanks returns the banks Paystack supports for the given country.
func (c *Client) ListBanks(ctx context.Context, country string) ([]Bank, error) {
	query := url.Values{}
	if country != "" {
		query.Set("country", country)
	}

	var banks []Bank
	if err := c.do(ctx, http.MethodGet, "/bank", query, nil, &banks); err != nil {
		return nil, err
	}

	return banks, nil
}

// DisableSubscription stops a subscription from renewing.
func (c *Client) DisableSubscription(ctx context.Context, code, emailToken string) error {
	return c.do(ctx, http.MethodPost, "/subscription/disable", nil, subscriptionToggle{Code: code, Token: emailToken}, nil)
}

// EnableSubscription re-enables a previously disabled subscription.
func (c *Client) EnableSubscription(ctx context.Context, code, emailToken string) error {
	return c.do(ctx, http.MethodPost, "/subscription/enable", nil, subscriptionToggle{Code: code, Token: emailToken}, nil)
}

type subscriptionToggle struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode paystack request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var result envelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode paystack response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.Status {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Str("message", result.Message).Msg("paystack request rejected")
		return &APIError{StatusCode: resp.StatusCode, Message: result.Message}
	}

	if out != nil && len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("decode paystack data: %w", err)
		}
	}

	return nil
}
