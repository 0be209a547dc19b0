package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/driftlab/device-checkout/internal/infrastructure/config"
	"github.com/driftlab/device-checkout/internal/infrastructure/logging"
)

// defaultBaseURL is the Slack Web API endpoint.
const defaultBaseURL = "https://slack.com/api"

// pageLimit is the page size requested from list endpoints.
const pageLimit = 500

// SlackClient implements Directory against the Slack Web API.
//
// The Slack API has no single-user or single-channel lookup by name, so both
// checks page through the full list (users.list / conversations.list) and
// match case-insensitively. Any transport or API failure fails open.
type SlackClient struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

// NewSlackClient creates a Slack-backed directory from configuration.
func NewSlackClient(cfg config.SlackConfig, logger *logging.Logger) *SlackClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &SlackClient{
		token:   cfg.Token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: cfg.GetSlackTimeout()},
		logger:  logger,
	}
}

// slackUser is the subset of users.list member fields we inspect.
type slackUser struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	IsBot   bool   `json:"is_bot"`
	Profile struct {
		DisplayName string `json:"display_name"`
	} `json:"profile"`
}

// slackChannel is the subset of conversations.list channel fields we inspect.
type slackChannel struct {
	Name       string `json:"name"`
	IsArchived bool   `json:"is_archived"`
}

// slackListResponse is the common envelope of Slack list endpoints.
type slackListResponse struct {
	OK               bool           `json:"ok"`
	Error            string         `json:"error"`
	Members          []slackUser    `json:"members"`
	Channels         []slackChannel `json:"channels"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// UserExists reports whether a non-deleted, non-bot user matches name
// (primary name or display name, case-insensitive).
//
// If the Slack API cannot be reached the lookup fails open and returns true.
func (c *SlackClient) UserExists(ctx context.Context, name string) bool {
	cursor := ""
	for {
		page, err := c.listPage(ctx, "users.list", url.Values{}, cursor)
		if err != nil {
			c.logger.Warn("slack users.list failed, failing open", "error", err)
			return true
		}

		for _, u := range page.Members {
			if u.IsBot || u.Deleted {
				continue
			}
			if strings.EqualFold(u.Name, name) || strings.EqualFold(u.Profile.DisplayName, name) {
				return true
			}
		}

		cursor = page.ResponseMetadata.NextCursor
		if cursor == "" {
			return false
		}
	}
}

// ChannelExists reports whether a non-archived public or private channel
// matches name (case-insensitive).
//
// If the Slack API cannot be reached the lookup fails open and returns true.
func (c *SlackClient) ChannelExists(ctx context.Context, name string) bool {
	params := url.Values{}
	params.Set("exclude_archived", "true")
	params.Set("types", "public_channel,private_channel")

	cursor := ""
	for {
		page, err := c.listPage(ctx, "conversations.list", params, cursor)
		if err != nil {
			c.logger.Warn("slack conversations.list failed, failing open", "error", err)
			return true
		}

		for _, ch := range page.Channels {
			// exclude_archived is advisory; skip archived channels regardless.
			if ch.IsArchived {
				continue
			}
			if strings.EqualFold(ch.Name, name) {
				return true
			}
		}

		cursor = page.ResponseMetadata.NextCursor
		if cursor == "" {
			return false
		}
	}
}

// listPage fetches one page of a Slack list endpoint.
func (c *SlackClient) listPage(ctx context.Context, method string, params url.Values, cursor string) (*slackListResponse, error) {
	params.Set("limit", fmt.Sprintf("%d", pageLimit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", method, resp.StatusCode)
	}

	var page slackListResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !page.OK {
		return nil, fmt.Errorf("%s returned error %q", method, page.Error)
	}

	return &page, nil
}
