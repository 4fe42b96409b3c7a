// Package paypal implements a minimal client for the PayPal REST API,
// covering OAuth2 client-credentials authentication, orders and
// authorization capture/void.
package paypal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// tokenExpiryMargin renews the cached access token this long before PayPal
// reports it as expired, so in-flight requests never race the expiry.
const tokenExpiryMargin = 60 * time.Second

// Client talks to the PayPal REST API. Access tokens are cached and shared
// across requests; the cache is guarded by a mutex so concurrent requests do
// not trigger redundant token fetches.
type Client struct {
	http   *resty.Client
	config *Config

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal client with the given configuration
func NewClient(config *Config) *Client {
	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		config: config,
	}
}

// token returns a valid cached access token, fetching a new one when the
// cached token is missing or within the expiry margin.
func (c *Client) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	var token tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.config.ClientID, c.config.Secret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&token).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("paypal token request failed with status %d", resp.StatusCode())
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("paypal token response missing access token")
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin)

	log.Debug().Time("expiry", c.tokenExpiry).Msg("paypal access token refreshed")
	return c.accessToken, nil
}

// post performs an authenticated POST request against the PayPal API,
// decoding the response into result when the call succeeds.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var apiErr apiError
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("paypal request %s failed: %w", path, err)
	}
	if resp.IsError() {
		if apiErr.Name != "" {
			return fmt.Errorf("paypal request %s failed: %s (%s)", path, apiErr.Name, apiErr.Message)
		}
		return fmt.Errorf("paypal request %s failed with status %d", path, resp.StatusCode())
	}
	return nil
}
