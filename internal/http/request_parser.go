// Package http provides HTTP server and handler implementations.
//
// This file turns query strings into engine inputs: the filter Selection and
// row paging for the posts listing.

package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"engagement/internal/core"
)

// Query parameter names for the three filter columns.
const (
	ParamPlatform  = "platform"
	ParamPostType  = "post_type"
	ParamSentiment = "sentiment"

	ParamLimit  = "limit"
	ParamOffset = "offset"
)

const (
	maxSelectionValues = 256
	maxValueLength     = 200

	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// ParseSelection builds the Selection for query. A parameter that is absent
// selects every option; a parameter present with no non-blank values selects
// nothing. Blank values are dropped.
func ParseSelection(query url.Values, opts core.Options) (core.Selection, error) {
	platforms, err := selectionValues(query, ParamPlatform, opts.Platforms)
	if err != nil {
		return core.Selection{}, err
	}
	postTypes, err := selectionValues(query, ParamPostType, opts.PostTypes)
	if err != nil {
		return core.Selection{}, err
	}
	sentiments, err := selectionValues(query, ParamSentiment, opts.Sentiments)
	if err != nil {
		return core.Selection{}, err
	}
	return core.NewSelection(platforms, postTypes, sentiments), nil
}

func selectionValues(query url.Values, param string, all []string) ([]string, error) {
	raw, present := query[param]
	if !present {
		return all, nil
	}
	if len(raw) > maxSelectionValues {
		return nil, fmt.Errorf("too many values for %s: %d (max %d)", param, len(raw), maxSelectionValues)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(sanitizeInput(v))
		if v == "" {
			continue
		}
		if len(v) > maxValueLength {
			return nil, fmt.Errorf("value for %s too long (max %d bytes)", param, maxValueLength)
		}
		out = append(out, v)
	}
	return out, nil
}

// Page is an offset/limit window over the filtered rows.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads limit and offset, defaulting to the first 100 rows.
func ParsePage(query url.Values) (Page, error) {
	page := Page{Limit: defaultPageLimit}

	if v := strings.TrimSpace(query.Get(ParamLimit)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			return Page{}, fmt.Errorf("invalid %s %q: must be between 1 and %d", ParamLimit, v, maxPageLimit)
		}
		page.Limit = n
	}
	if v := strings.TrimSpace(query.Get(ParamOffset)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("invalid %s %q: must be a non-negative integer", ParamOffset, v)
		}
		page.Offset = n
	}
	return page, nil
}

// Apply returns the window of posts covered by the page.
func (p Page) Apply(posts []core.Post) []core.Post {
	if p.Offset >= len(posts) {
		return []core.Post{}
	}
	end := p.Offset + p.Limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[p.Offset:end]
}

// SelectionQuery encodes sel back into query parameters. Every parameter is
// written, so an empty set round-trips as an empty selection.
func SelectionQuery(sel core.Selection) url.Values {
	q := url.Values{}
	for param, set := range map[string]core.Set{
		ParamPlatform:  sel.Platforms,
		ParamPostType:  sel.PostTypes,
		ParamSentiment: sel.Sentiments,
	} {
		values := set.Sorted()
		if len(values) == 0 {
			values = []string{""}
		}
		q[param] = values
	}
	return q
}
