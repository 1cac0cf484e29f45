package reddit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

const (
	KindComment = "t1"
	KindLink    = "t3"
	KindMore    = "more"
)

type Listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []Thing `json:"children"`
	} `json:"data"`
}

type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (t Thing) hasData() bool {
	trimmed := bytes.TrimSpace(t.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

type LinkData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

type CommentData struct {
	ID         string   `json:"id"`
	Author     string   `json:"author"`
	Body       string   `json:"body"`
	ParentID   string   `json:"parent_id"`
	Score      *int     `json:"score"`
	CreatedUTC float64  `json:"created_utc"`
	Replies    *Replies `json:"replies"`
}

// Replies holds a nested listing. The API sends an empty string instead of a
// listing when a comment has no replies.
type Replies struct {
	Listing
}

func (r *Replies) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	return json.Unmarshal(trimmed, &r.Listing)
}

func (l LinkData) Post() thread.Post {
	return thread.Post{
		ID:         l.ID,
		Title:      l.Title,
		Permalink:  l.Permalink,
		CreatedUTC: l.CreatedUTC,
	}
}

// Nodes converts listing children into payload node variants. A comment thing
// with a null payload or a payload that does not decode becomes an OtherNode.
func Nodes(things []Thing) []thread.Node {
	nodes := make([]thread.Node, 0, len(things))
	for _, thing := range things {
		nodes = append(nodes, node(thing))
	}
	return nodes
}

func node(thing Thing) thread.Node {
	if thing.Kind != KindComment || !thing.hasData() {
		return thread.OtherNode{Kind: thing.Kind}
	}

	var data CommentData
	if err := json.Unmarshal(thing.Data, &data); err != nil {
		return thread.OtherNode{Kind: thing.Kind}
	}

	var replies []thread.Node
	if data.Replies != nil {
		replies = Nodes(data.Replies.Data.Children)
	}

	return thread.CommentNode{
		ID:         data.ID,
		Author:     data.Author,
		Body:       data.Body,
		ParentRef:  data.ParentID,
		Score:      data.Score,
		CreatedUTC: data.CreatedUTC,
		Replies:    replies,
	}
}

// ParseThread decodes a comments response, a two element array of the post
// listing and the comment listing, into the root comment nodes.
func ParseThread(data []byte) ([]thread.Node, error) {
	var listings []Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode thread: %w", err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected thread payload: %d listings", len(listings))
	}
	return Nodes(listings[1].Data.Children), nil
}

// ParseListing decodes a subreddit listing into posts, skipping everything that
// is not a link.
func ParseListing(data []byte) ([]thread.Post, error) {
	var listing Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	posts := make([]thread.Post, 0, len(listing.Data.Children))
	for _, thing := range listing.Data.Children {
		if thing.Kind != KindLink || !thing.hasData() {
			continue
		}
		var link LinkData
		if err := json.Unmarshal(thing.Data, &link); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, link.Post())
	}
	return posts, nil
}
