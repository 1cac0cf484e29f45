package reddit

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

const DefaultFeedURL = "https://www.reddit.com"

// FeedSource lists new posts from the public Atom feed of a subreddit. It needs
// no credentials and carries only the fields required to pick daily threads.
type FeedSource struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewFeedSource(baseURL, userAgent string, httpClient *http.Client) *FeedSource {
	return &FeedSource{
		baseURL:    cmp.Or(baseURL, DefaultFeedURL),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

func (s *FeedSource) NewPosts(ctx context.Context, forum string, limit int) ([]thread.Post, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new/.rss", s.baseURL, url.PathEscape(forum))
	if limit > 0 {
		endpoint += fmt.Sprintf("?limit=%d", limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
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

	return s.Parse(data)
}

// Parse builds a new gofeed parser per call, parsers keep per-document state.
func (s *FeedSource) Parse(data []byte) ([]thread.Post, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	posts := make([]thread.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		if !strings.HasPrefix(item.GUID, KindLink+"_") {
			continue
		}

		post := thread.Post{
			ID:        thread.BareID(item.GUID),
			Title:     item.Title,
			Permalink: permalink(item.Link),
		}
		if published := cmp.Or(item.PublishedParsed, item.UpdatedParsed); published != nil {
			post.CreatedUTC = float64(published.Unix())
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func permalink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	return u.Path
}
