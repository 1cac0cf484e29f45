package export

import (
	"github.com/lysyi3m/reddit-comb/app/thread"
)

// Params describe one export request. Zero values fall back to the process
// configuration.
type Params struct {
	Subreddit      string   // single forum, wins over Subreddits
	Subreddits     []string // forums in request order
	IntervalHours  float64
	ScoreThreshold *int
	WriteToFile    bool
	OutputDir      string
}

type ForumReport struct {
	Forum  string
	Result *thread.Result
	Cached bool
	File   string // path written, empty unless WriteToFile
}

type Report struct {
	Content string
	Forums  []ForumReport
}

func (r *Report) Files() []string {
	files := make([]string, 0, len(r.Forums))
	for _, f := range r.Forums {
		if f.File != "" {
			files = append(files, f.File)
		}
	}
	return files
}
