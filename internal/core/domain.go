package core

import (
	"time"
)

type (
	// Post is one row of the engagement dataset.
	Post struct {
		Platform  string    `json:"platform"`
		PostType  string    `json:"post_type"`
		Sentiment string    `json:"sentiment_score"` // opaque category label
		PostTime  time.Time `json:"post_time"`
		Likes     int64     `json:"likes"`
		Comments  int64     `json:"comments"`
		Shares    int64     `json:"shares"`
	}

	// Dataset is the full table of posts. It is never modified after NewDataset.
	Dataset struct {
		posts []Post
	}

	// Options lists the distinct filter values in first-seen order.
	Options struct {
		Platforms  []string `json:"platforms"`
		PostTypes  []string `json:"post_types"`
		Sentiments []string `json:"sentiments"`
	}
)

// NewDataset copies posts into a new Dataset.
func NewDataset(posts []Post) *Dataset {
	return &Dataset{posts: append([]Post(nil), posts...)}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.posts)
}

// Posts returns a copy of all rows in source order.
func (d *Dataset) Posts() []Post {
	if d == nil {
		return nil
	}
	return append([]Post(nil), d.posts...)
}

// View returns the unfiltered view of the dataset.
func (d *Dataset) View() View {
	return View{posts: d.Posts()}
}

// Options returns the distinct platforms, post types and sentiments.
func (d *Dataset) Options() Options {
	var opts Options
	if d == nil {
		return opts
	}
	seenPlatform := map[string]struct{}{}
	seenType := map[string]struct{}{}
	seenSentiment := map[string]struct{}{}
	for _, p := range d.posts {
		opts.Platforms = appendUnique(opts.Platforms, seenPlatform, p.Platform)
		opts.PostTypes = appendUnique(opts.PostTypes, seenType, p.PostType)
		opts.Sentiments = appendUnique(opts.Sentiments, seenSentiment, p.Sentiment)
	}
	return opts
}

// Selection returns a Selection holding every option, which matches all rows.
func (o Options) Selection() Selection {
	return NewSelection(o.Platforms, o.PostTypes, o.Sentiments)
}

func appendUnique(out []string, seen map[string]struct{}, v string) []string {
	if _, ok := seen[v]; ok {
		return out
	}
	seen[v] = struct{}{}
	return append(out, v)
}
