package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
)

const (
	DefaultBaseURL = "https://dummyjson.com"

	defaultTimeout = 30 * time.Second
	loginFailed    = "Login failed"
)

// loginRequest is the credential payload for /auth/login
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the user record returned by /auth/login and /auth/me.
// Login responses carry accessToken; older deployments use token.
type userResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Gender      string `json:"gender"`
	Image       string `json:"image"`
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

func (r userResponse) user() domain.User {
	return domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		Image:     r.Image,
	}
}

// Client talks to the remote credential service. It implements domain.AuthClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote auth client
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Login exchanges credentials for a token. All failures are *domain.AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	bodyBytes, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, &domain.AuthError{Message: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &domain.AuthError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth request failed", "error", err)
		return nil, &domain.AuthError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.AuthError{Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("login rejected", "status", resp.StatusCode, "username", username)
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = loginFailed
		}
		return nil, &domain.AuthError{Message: msg}
	}

	var payload userResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, &domain.AuthError{Message: "failed to parse login response", Err: err}
	}

	token := payload.AccessToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return nil, &domain.AuthError{Message: "no token in login response"}
	}

	return &domain.AuthResult{Token: token, User: payload.user()}, nil
}

// Me returns the user identified by token. A 401 wraps domain.ErrSessionExpired.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("profile request failed", "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionExpired, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload userResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	user := payload.user()
	return &user, nil
}
