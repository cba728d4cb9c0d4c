// Package captcha verifies reCAPTCHA response tokens against Google's
// siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Client verifies CAPTCHA tokens. A Client constructed with an empty
// secret is disabled and the login flow skips the check entirely.
type Client struct {
	secret string

	// Endpoint and HTTPClient are overridable for tests.
	Endpoint   string
	HTTPClient *http.Client
}

// New creates a CAPTCHA client for the given shared secret.
func New(secret string) *Client {
	return &Client{
		secret:     secret,
		Endpoint:   defaultEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a verification secret is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.secret != ""
}

// Verify checks a client-supplied response token. It returns false for
// a token the service rejects and an error only when the service
// itself cannot be reached or answers garbage.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("call siteverify: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}

	return result.Success, nil
}
