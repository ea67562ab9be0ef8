// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/ldr-counter/identity"
)

// SiteVerifyResponse is the provider's answer for one token
type SiteVerifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// Verifier redeems a proof token with the external provider
type Verifier interface {
	SiteVerify(ctx context.Context, token, remoteIP string) (*SiteVerifyResponse, error)
}

// VerifierFunc adapts a function to the Verifier interface
type VerifierFunc func(ctx context.Context, token, remoteIP string) (*SiteVerifyResponse, error)

func (f VerifierFunc) SiteVerify(ctx context.Context, token, remoteIP string) (*SiteVerifyResponse, error) {
	return f(ctx, token, remoteIP)
}

// RecaptchaClient calls the reCAPTCHA siteverify endpoint
type RecaptchaClient struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

func NewRecaptchaClient(secret, endpoint string, timeout time.Duration) *RecaptchaClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: timeout,
	}

	return &RecaptchaClient{
		secret:   secret,
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// SiteVerify posts the token and decodes the verdict.
// Any non-200 status or undecodable body is an error.
func (c *RecaptchaClient) SiteVerify(ctx context.Context, token, remoteIP string) (*SiteVerifyResponse, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	// The provider expects an address; the placeholder identity is not one
	if remoteIP != "" && remoteIP != identity.Unknown {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var out SiteVerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}

	return &out, nil
}
