package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/pkg/circuitbreaker"
	"zombiedigital/pkg/retry"

	"go.uber.org/zap"
)

const (
	defaultAPIBaseURL  = "https://api.twitch.tv"
	defaultAuthBaseURL = "https://id.twitch.tv"

	// tokenExpirySlack renews the app token this long before Twitch would
	// reject it, so in-flight requests never race the expiry.
	tokenExpirySlack = time.Minute
)

// Config carries the Helix credentials and endpoints.
type Config struct {
	ClientID       string
	ClientSecret   string
	APIBaseURL     string
	AuthBaseURL    string
	RequestTimeout time.Duration
}

// Client verifies moderator status against the Helix moderation endpoint.
// Every call is bounded by RequestTimeout and runs through a circuit breaker;
// an open circuit surfaces as an error, which callers treat as a negative
// answer (fail closed).
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	apiBaseURL   string
	authBaseURL  string
	timeout      time.Duration
	breaker      *circuitbreaker.CircuitBreaker
	logger       *zap.SugaredLogger

	mu          sync.Mutex
	appToken    string
	tokenExpiry time.Time
}

func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = defaultAuthBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiBaseURL:   strings.TrimSuffix(cfg.APIBaseURL, "/"),
		authBaseURL:  strings.TrimSuffix(cfg.AuthBaseURL, "/"),
		timeout:      cfg.RequestTimeout,
		breaker:      circuitbreaker.New(circuitbreaker.DefaultConfig()),
		logger:       logger,
	}
}

// VerifyModStatus reports whether moderatorID moderates broadcasterID's
// channel.
func (c *Client) VerifyModStatus(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (bool, error) {
	result, err := c.breaker.ExecuteWithResult(ctx, func() (interface{}, error) {
		return c.checkModerator(ctx, broadcasterID, moderatorID)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

type moderatorsResponse struct {
	Data []struct {
		UserID string `json:"user_id"`
	} `json:"data"`
}

func (c *Client) checkModerator(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.appAccessToken(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to obtain app token: %w", err)
	}

	isMod, status, err := c.queryModerators(ctx, token, broadcasterID, moderatorID)
	if status == http.StatusUnauthorized {
		// Token was revoked server-side; fetch a fresh one and try once more.
		c.invalidateToken()
		token, err = c.appAccessToken(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to refresh app token: %w", err)
		}
		isMod, _, err = c.queryModerators(ctx, token, broadcasterID, moderatorID)
	}
	if err != nil {
		return false, err
	}

	return isMod, nil
}

func (c *Client) queryModerators(ctx context.Context, token string, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (bool, int, error) {
	endpoint := fmt.Sprintf("%s/helix/moderation/moderators?broadcaster_id=%s&user_id=%s&first=1",
		c.apiBaseURL,
		url.QueryEscape(string(broadcasterID)),
		url.QueryEscape(string(moderatorID)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("moderation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, resp.StatusCode, fmt.Errorf("moderation lookup returned status %d", resp.StatusCode)
	}

	var payload moderatorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, resp.StatusCode, fmt.Errorf("failed to decode moderation response: %w", err)
	}

	for _, mod := range payload.Data {
		if mod.UserID == string(moderatorID) {
			return true, resp.StatusCode, nil
		}
	}
	return false, resp.StatusCode, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// appAccessToken returns a cached client-credentials token, fetching a new one
// when missing or about to expire.
func (c *Client) appAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.appToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.appToken, nil
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 2

	token, err := retry.RetryWithResult(ctx, retryCfg, func() (*tokenResponse, error) {
		return c.fetchAppToken(ctx)
	})
	if err != nil {
		return "", err
	}

	c.appToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	c.logger.Debugw("fetched Twitch app token",
		"expires_in", token.ExpiresIn,
	)

	return c.appToken, nil
}

func (c *Client) fetchAppToken(ctx context.Context) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBaseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appToken = ""
	c.tokenExpiry = time.Time{}
}
