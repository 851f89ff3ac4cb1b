// Package userclient wraps the remote user service behind the narrow
// contracts the order engine needs: raw profile/status fetches, a boolean
// verification check, and a liveness probe.
package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 5 * time.Second

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnavailable  = errors.New("user service unavailable")
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserStatus struct {
	IsActive bool `json:"isActive"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetUserByID fetches the user's profile. It fails with ErrUserNotFound on
// an upstream 404 and ErrUnavailable on any other failure, timeouts included.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserStatus fetches the user's activity flag, with the same failure
// mapping as GetUserByID.
func (c *Client) GetUserStatus(ctx context.Context, userID string) (*UserStatus, error) {
	var st UserStatus
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID)+"/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ValidateUser reports whether the user exists and is active. Every failure
// mode collapses to false: callers only ever branch on the boolean, so an
// unreachable upstream means "not verified", not an error.
func (c *Client) ValidateUser(ctx context.Context, userID string) bool {
	st, err := c.GetUserStatus(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("userclient: user validation failed")
		return false
	}
	return st.IsActive
}

// Healthy probes the upstream's liveness endpoint, collapsing any failure
// to false.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("userclient: failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return nil
}
