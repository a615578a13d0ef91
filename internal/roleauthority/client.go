// internal/roleauthority/client.go
package roleauthority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "tender-scheduler/internal/common/errors"
	commonhttp "tender-scheduler/internal/common/http"
)

// ErrUserNotFound reports that the authority has no account for the user.
// Callers treat this as a definitive answer, not a lookup failure.
var ErrUserNotFound = errors.New("USER_NOT_FOUND")

// Client talks to the membership system that owns user accounts and roles.
type Client struct {
	baseURL    string
	httpClient *commonhttp.Client
}

type roleResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// NewClient creates a role authority client. The API key is sent as an
// x-api-key header on every request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: commonhttp.NewClientWithAPIKey(timeout, apiKey),
	}
}

// GetUserRoles fetches the roles the authority currently assigns to a user.
// A 404 response maps to ErrUserNotFound; any other non-200 status is
// returned as a StandardError so callers can inspect retryability.
func (c *Client) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	roleURL := fmt.Sprintf("%s/user-role/%s", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequest("GET", roleURL, nil)
	if err != nil {
		return nil, &apperrors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create role lookup request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, &apperrors.StandardError{
			Code:      "NETWORK_ERROR",
			Message:   "Failed to reach role authority",
			Details:   err.Error(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &apperrors.StandardError{
			Code:      "ROLE_AUTHORITY_API_ERROR",
			Message:   "Role authority returned an unexpected status",
			Details:   fmt.Sprintf("Status: %d, Body: %s", resp.StatusCode, string(body)),
			Retryable: isTransientHTTPError(resp.StatusCode),
		}
	}

	var parsed roleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &apperrors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode role authority response",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	return parsed.Roles, nil
}

// HasAuthorizedRole reports whether any of the user's roles appears in the
// authorized set.
func HasAuthorizedRole(roles, authorized []string) bool {
	for _, role := range roles {
		for _, allowed := range authorized {
			if strings.EqualFold(role, allowed) {
				return true
			}
		}
	}
	return false
}

// isTransientHTTPError returns true if the HTTP status code indicates a potentially transient error.
func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError, // 500
		http.StatusBadGateway,         // 502
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	default:
		return false
	}
}
