package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

const (
	DefaultListingLimit = 20
	threadCommentLimit  = 500
)

// Client issues authenticated requests against the OAuth API host.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

func NewClient(httpClient *http.Client, apiURL string) *Client {
	return &Client{httpClient: httpClient, apiURL: apiURL}
}

func (c *Client) NewPosts(ctx context.Context, forum string, limit int) ([]thread.Post, error) {
	if limit <= 0 {
		limit = DefaultListingLimit
	}

	query := url.Values{"limit": {strconv.Itoa(limit)}}
	data, err := c.get(ctx, "/r/"+url.PathEscape(forum)+"/new.json", query)
	if err != nil {
		return nil, err
	}

	return ParseListing(data)
}

func (c *Client) Thread(ctx context.Context, forum, postID string) ([]thread.Node, error) {
	query := url.Values{
		"raw_json": {"1"},
		"limit":    {strconv.Itoa(threadCommentLimit)},
	}
	data, err := c.get(ctx, "/r/"+url.PathEscape(forum)+"/comments/"+url.PathEscape(postID)+".json", query)
	if err != nil {
		return nil, err
	}

	return ParseThread(data)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
