package reddit

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/reddit-comb/app/thread"
)

var DefaultTitlePrefixes = []string{
	"[daily discussion]",
	"daily discussion",
	"daily general discussion",
	"daily thread",
}

// TitleMatcher recognises daily discussion threads by a case-insensitive title
// prefix.
type TitleMatcher struct {
	prefixes []string
}

func NewTitleMatcher(prefixes []string) *TitleMatcher {
	if len(prefixes) == 0 {
		prefixes = DefaultTitlePrefixes
	}

	m := &TitleMatcher{}
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		m.prefixes = append(m.prefixes, m.canonical(p))
	}
	return m
}

func (m *TitleMatcher) Match(title string) bool {
	folded := m.canonical(title)
	for _, p := range m.prefixes {
		if strings.HasPrefix(folded, p) {
			return true
		}
	}
	return false
}

// Select keeps matching posts, newest first, at most limit of them.
func (m *TitleMatcher) Select(posts []thread.Post, limit int) []thread.Post {
	selected := make([]thread.Post, 0, len(posts))
	for _, p := range posts {
		if m.Match(p.Title) {
			selected = append(selected, p)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedUTC > selected[j].CreatedUTC
	})

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// canonical builds a fresh Caser per call, Casers are stateful.
func (m *TitleMatcher) canonical(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
