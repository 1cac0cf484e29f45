package thread

import (
	"fmt"
	"time"
)

// Thread processing types

type Post struct {
	ID         string
	Title      string
	Permalink  string
	CreatedUTC float64
}

func (p Post) URL() string {
	return "https://www.reddit.com" + p.Permalink
}

// PostMeta is the post information denormalized onto every comment of a thread.
type PostMeta struct {
	Title      string
	URL        string
	CreatedUTC float64
}

func (p Post) Meta() PostMeta {
	return PostMeta{
		Title:      p.Title,
		URL:        p.URL(),
		CreatedUTC: p.CreatedUTC,
	}
}

type Comment struct {
	ID         string
	Author     string
	Body       string
	ParentID   string // post id for top-level comments
	Score      *int   // nil when the payload carried no score
	CreatedUTC float64

	PostTitle      string
	PostURL        string
	PostCreatedUTC float64
}

func (c Comment) CreatedAt() time.Time {
	return unixSeconds(c.CreatedUTC)
}

func (c Comment) FromPost(p Post) bool {
	return c.PostTitle == p.Title && c.PostURL == p.URL()
}

// Payload node variants. Decoding of the external payload produces these, the
// core never looks at raw JSON.

type Node interface {
	isNode()
}

type CommentNode struct {
	ID         string
	Author     string
	Body       string
	ParentRef  string // fullname such as "t1_abc" or "t3_xyz", may be empty
	Score      *int
	CreatedUTC float64
	Replies    []Node
}

type OtherNode struct {
	Kind string
}

func (CommentNode) isNode() {}
func (OtherNode) isNode()   {}

type ExcludedSet map[string]struct{}

func (s ExcludedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s ExcludedSet) add(id string) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

type Rules struct {
	Authors        []string
	ScoreThreshold int
}

func (r Rules) authorSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Authors))
	for _, a := range r.Authors {
		set[a] = struct{}{}
	}
	return set
}

func unixSeconds(v float64) time.Time {
	return time.UnixMilli(int64(v * 1000)).UTC()
}

func formatScore(score *int) string {
	if score == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *score)
}
