package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"engagement/internal/core"
)

// Column names expected in the header row.
const (
	ColPlatform  = "platform"
	ColPostType  = "post_type"
	ColSentiment = "sentiment_score"
	ColPostTime  = "post_time"
	ColLikes     = "likes"
	ColComments  = "comments"
	ColShares    = "shares"
)

// RequiredColumns lists the header names every source must provide.
var RequiredColumns = []string{ColPlatform, ColPostType, ColSentiment, ColPostTime, ColLikes, ColComments, ColShares}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05Z07:00",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseTable converts a header row and its data rows into posts. Extra
// columns are ignored and header names match case-insensitively.
func ParseTable(source string, header []string, rows [][]string) ([]core.Post, error) {
	idx, err := columnIndex(header)
	if err != nil {
		err.Source = source
		return nil, err
	}

	width := 0
	for _, col := range RequiredColumns {
		if idx[col]+1 > width {
			width = idx[col] + 1
		}
	}

	posts := make([]core.Post, 0, len(rows))
	for i, row := range rows {
		p, err := parseRow(idx, width, row)
		if err != nil {
			err.Source = source
			err.Row = i + 1
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func columnIndex(header []string) (map[string]int, *core.LoadError) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &core.LoadError{
			Column: strings.Join(missing, ","),
			Err:    fmt.Errorf("%w: got header %v", core.ErrMissingColumn, header),
		}
	}
	return idx, nil
}

// parseRow reads one data row. width is one past the highest required column
// index; shorter rows are malformed rather than silently blank.
func parseRow(idx map[string]int, width int, row []string) (core.Post, *core.LoadError) {
	if len(row) < width {
		return core.Post{}, &core.LoadError{
			Err: fmt.Errorf("%w: row has %d cells, want at least %d", core.ErrMalformed, len(row), width),
		}
	}
	get := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	var p core.Post
	for _, f := range []struct {
		col string
		dst *string
	}{
		{ColPlatform, &p.Platform},
		{ColPostType, &p.PostType},
		{ColSentiment, &p.Sentiment},
	} {
		v := get(f.col)
		if v == "" {
			return core.Post{}, &core.LoadError{Column: f.col, Err: fmt.Errorf("%w: empty category", core.ErrInvalidValue)}
		}
		*f.dst = v
	}

	ts, err := ParseTimestamp(get(ColPostTime))
	if err != nil {
		return core.Post{}, &core.LoadError{Column: ColPostTime, Err: err}
	}
	p.PostTime = ts

	for _, f := range []struct {
		col string
		dst *int64
	}{
		{ColLikes, &p.Likes},
		{ColComments, &p.Comments},
		{ColShares, &p.Shares},
	} {
		n, err := ParseCount(get(f.col))
		if err != nil {
			return core.Post{}, &core.LoadError{Column: f.col, Err: err}
		}
		*f.dst = n
	}
	return p, nil
}

// ParseTimestamp accepts the layouts commonly found in exported post tables.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", core.ErrInvalidValue)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", core.ErrInvalidValue, s)
}

// ParseCount parses a non-negative integer. A zero fraction such as "12.0"
// is accepted since spreadsheet exports often write integers that way.
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if whole, frac, ok := strings.Cut(s, "."); ok && strings.Trim(frac, "0") == "" {
		s = whole
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: not an integer %q", core.ErrInvalidValue, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d", core.ErrInvalidValue, n)
	}
	return n, nil
}
