package thread

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const noCommentsPlaceholder = "_No comments in time interval._\n"

type Report struct {
	Forum         string
	IntervalHours float64
	ExportedAt    time.Time
	FileName      string
	Posts         []Post
	Comments      []Comment
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(report Report) string {
	labels := g.labels(report.Comments)

	var body strings.Builder
	for _, post := range report.Posts {
		fmt.Fprintf(&body, "\n\n## Comments from: \"%s\"\n\n", Normalize(post.Title))

		var entries []string
		for _, c := range report.Comments {
			if c.FromPost(post) {
				entries = append(entries, g.entry(c, labels))
			}
		}

		if len(entries) == 0 {
			body.WriteString(noCommentsPlaceholder)
			continue
		}
		body.WriteString(strings.Join(entries, "\n\n"))
	}

	var buf strings.Builder
	buf.WriteString("# Reddit Comment Export\n")
	fmt.Fprintf(&buf, "- Subreddit: r/%s\n", report.Forum)
	fmt.Fprintf(&buf, "- Time interval: last %s hours\n", FormatHours(report.IntervalHours))
	fmt.Fprintf(&buf, "- Exported: %s UTC\n", report.ExportedAt.UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&buf, "- Total comments: %d\n", len(report.Comments))
	fmt.Fprintf(&buf, "- File name: %s\n", report.FileName)
	buf.WriteString("- Posts included:\n")

	posts := make([]string, 0, len(report.Posts))
	for _, p := range report.Posts {
		posts = append(posts, fmt.Sprintf("    - \"%s\" [%s]\n      %s",
			Normalize(p.Title),
			unixSeconds(p.CreatedUTC).Format("2006-01-02"),
			p.URL()))
	}
	buf.WriteString(strings.Join(posts, "\n"))
	buf.WriteString("\n---\n")
	buf.WriteString(body.String())

	return buf.String()
}

func (g *Generator) labels(comments []Comment) map[string]string {
	labels := make(map[string]string, len(comments))
	for i, c := range comments {
		labels[c.ID] = fmt.Sprintf("Comment %d", i+1)
	}
	return labels
}

func (g *Generator) entry(c Comment, labels map[string]string) string {
	var reply string
	if parent, ok := labels[c.ParentID]; ok {
		reply = fmt.Sprintf(" [in reply to %s]", parent)
	}

	return fmt.Sprintf("%s (%s, %s, %s votes)%s: %s",
		labels[c.ID],
		c.Author,
		c.CreatedAt().Format("2006-01-02T15:04"),
		formatScore(c.Score),
		reply,
		Normalize(c.Body))
}

// FormatHours renders an interval without a trailing ".0" for whole hours.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
