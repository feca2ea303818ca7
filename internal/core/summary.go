package core

import "sort"

type (
	// Totals are the KPI sums over a view.
	Totals struct {
		Likes    int64 `json:"likes"`
		Comments int64 `json:"comments"`
		Shares   int64 `json:"shares"`
	}

	// GroupSum is the likes total of one category.
	GroupSum struct {
		Name  string `json:"name"`
		Likes int64  `json:"likes"`
	}

	// GroupShare is the likes total of one category and its fraction of all likes.
	GroupShare struct {
		Name  string  `json:"name"`
		Likes int64   `json:"likes"`
		Share float64 `json:"share"`
	}

	// Summary bundles every aggregate the dashboard renders for one selection.
	Summary struct {
		Rows             int            `json:"rows"`
		Totals           Totals         `json:"totals"`
		LikesByPlatform  []GroupSum     `json:"likes_by_platform"`
		LikesByPostType  []GroupShare   `json:"likes_by_post_type"`
		LikesBySentiment []Distribution `json:"likes_by_sentiment"`
	}
)

// Totals sums likes, comments and shares over the view.
func (v View) Totals() Totals {
	var t Totals
	for _, p := range v.posts {
		t.Likes += p.Likes
		t.Comments += p.Comments
		t.Shares += p.Shares
	}
	return t
}

// LikesByPlatform groups likes by platform, in lexical order.
func (v View) LikesByPlatform() []GroupSum {
	return sumLikesBy(v.posts, func(p Post) string { return p.Platform })
}

// LikesByPostType groups likes by post type with each group's share of the total.
func (v View) LikesByPostType() []GroupShare {
	sums := sumLikesBy(v.posts, func(p Post) string { return p.PostType })
	var total int64
	for _, g := range sums {
		total += g.Likes
	}
	out := make([]GroupShare, 0, len(sums))
	for _, g := range sums {
		share := 0.0
		if total > 0 {
			share = float64(g.Likes) / float64(total)
		}
		out = append(out, GroupShare{Name: g.Name, Likes: g.Likes, Share: share})
	}
	return out
}

// LikesBySentiment returns the likes distribution of each sentiment group.
func (v View) LikesBySentiment() []Distribution {
	groups := map[string][]int64{}
	for _, p := range v.posts {
		groups[p.Sentiment] = append(groups[p.Sentiment], p.Likes)
	}
	out := make([]Distribution, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		out = append(out, Describe(name, groups[name]))
	}
	return out
}

// Summarize computes every dashboard aggregate for the view.
func Summarize(v View) Summary {
	return Summary{
		Rows:             v.Len(),
		Totals:           v.Totals(),
		LikesByPlatform:  v.LikesByPlatform(),
		LikesByPostType:  v.LikesByPostType(),
		LikesBySentiment: v.LikesBySentiment(),
	}
}

func sumLikesBy(posts []Post, key func(Post) string) []GroupSum {
	sums := map[string]int64{}
	for _, p := range posts {
		sums[key(p)] += p.Likes
	}
	out := make([]GroupSum, 0, len(sums))
	for _, name := range sortedKeys(sums) {
		out = append(out, GroupSum{Name: name, Likes: sums[name]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
