package srf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrMalformedCredentialResponse reports a token exchange response missing
// required keys. The previously stored token, if any, is left untouched.
var ErrMalformedCredentialResponse = errors.New("credential response missing required keys")

// tokenCache holds the bearer token for one credential pair. Renewal is not
// mutex-protected: refresh cycles are sequential per station, and a rare
// duplicate renewal is idempotent (last write wins).
type tokenCache struct {
	token     string
	expiresAt time.Time
}

// valid reports whether the cached token can still be used. The expiry
// boundary is inclusive: a token expiring exactly now must be renewed.
func (t tokenCache) valid(now time.Time) bool {
	return t.token != "" && now.Before(t.expiresAt)
}

// accessToken returns the cached bearer token, renewing it first when absent
// or expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.creds.valid(c.clock.Now()) {
		return c.creds.token, nil
	}

	c.logger.Info("renewing srf access token")
	if err := c.renewToken(ctx); err != nil {
		c.metrics.TokenRenewalErrors.Inc()
		return "", err
	}
	c.metrics.TokenRenewals.Inc()
	return c.creds.token, nil
}

// renewToken exchanges the consumer key/secret for a fresh access token via
// the OAuth client-credentials flow and replaces the cache wholesale. On any
// failure the cache is left as it was.
func (c *Client) renewToken(ctx context.Context) error {
	u := c.baseURL + "/oauth/v1/accesstoken?grant_type=client_credentials"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIRequestDuration.WithLabelValues("token").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Endpoint: "token", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}

	token, ok := payload["access_token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("%w: access_token", ErrMalformedCredentialResponse)
	}
	expiresIn, err := epochField(payload, "expires_in")
	if err != nil {
		return fmt.Errorf("%w: expires_in", ErrMalformedCredentialResponse)
	}

	// Apigee reports issued_at in epoch milliseconds; when the key is
	// missing it is synthesized in the same unit so the division below is
	// always correct.
	issuedAtMS, err := epochField(payload, "issued_at")
	if err != nil {
		issuedAtMS = c.clock.Now().UnixMilli()
	}

	c.creds = tokenCache{
		token:     token,
		expiresAt: time.Unix(issuedAtMS/1000+expiresIn, 0),
	}
	c.logger.Debug("access token renewed", "expires_at", c.creds.expiresAt)
	return nil
}

// epochField reads an integer field that Apigee may deliver as a JSON number
// or a quoted number.
func epochField(payload map[string]any, key string) (int64, error) {
	v, ok := payload[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q is not numeric: %q", key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("field %q is not numeric: %v", key, v)
	}
}
