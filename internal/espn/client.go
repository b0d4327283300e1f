package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	BaseURL        = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	DefaultTimeout = 10 * time.Second
)

// Client defines the interface for interacting with the ESPN NFL API
type Client interface {
	GetScoreboard(ctx context.Context) (*Scoreboard, error)
	GetTeamSchedule(ctx context.Context, teamID string) (*TeamSchedule, error)
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the ESPN API. Empty baseURL and non-positive
// timeout fall back to the public endpoint and DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// makeRequest performs an HTTP GET request to the ESPN API
func (c *HTTPClient) makeRequest(ctx context.Context, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	c.logger.WithField("url", url).Debug("Making API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"endpoint":    endpoint,
		}).Error("API request failed")

		return &APIError{
			Type:       "api_error",
			Message:    fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200)),
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
		}
	}

	if err := jsoniter.Unmarshal(body, result); err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Error("Failed to unmarshal response")
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("API request completed successfully")
	return nil
}

// GetScoreboard retrieves the current week's scoreboard
func (c *HTTPClient) GetScoreboard(ctx context.Context) (*Scoreboard, error) {
	var scoreboard Scoreboard

	if err := c.makeRequest(ctx, "/scoreboard", &scoreboard); err != nil {
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	return &scoreboard, nil
}

// GetTeamSchedule retrieves a team's season schedule by ESPN team ID
func (c *HTTPClient) GetTeamSchedule(ctx context.Context, teamID string) (*TeamSchedule, error) {
	endpoint := fmt.Sprintf("/teams/%s/schedule", teamID)
	var schedule TeamSchedule

	if err := c.makeRequest(ctx, endpoint, &schedule); err != nil {
		return nil, fmt.Errorf("failed to get schedule for team %s: %w", teamID, err)
	}

	return &schedule, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
