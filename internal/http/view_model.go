package http

import (
	"math"
	"strings"

	"engagement/internal/core"
)

// maxRenderedPosts caps the rows table on the HTML page; the JSON API pages instead.
const maxRenderedPosts = 500

type (
	kpiCard struct {
		Label string
		Value string
	}

	barRow struct {
		Name  string
		Value string
		Width int
	}

	shareRow struct {
		Name    string
		Likes   string
		Percent string
		Width   int
	}

	// boxRow positions a box plot on a 0..100 scale shared by all groups.
	boxRow struct {
		Name     string
		Count    string
		Min      string
		Q1       string
		Median   string
		Q3       string
		Max      string
		Mean     string
		Outliers string

		WhiskerLeft  float64
		WhiskerWidth float64
		BoxLeft      float64
		BoxWidth     float64
		MedianPos    float64
	}

	postRow struct {
		Platform  string
		PostType  string
		Sentiment string
		PostTime  string
		Likes     string
		Comments  string
		Shares    string
	}

	overviewData struct {
		Rows       string
		Empty      bool
		KPIs       []kpiCard
		Platforms  []barRow
		PostTypes  []shareRow
		Sentiments []boxRow
		Posts      []postRow
		Truncated  bool
		Shown      string
		ExportURL  string
	}

	filterOption struct {
		Value    string
		Selected bool
	}

	filterGroup struct {
		Param   string
		Label   string
		Options []filterOption
	}

	dashboardData struct {
		Filters  []filterGroup
		Overview overviewData
	}
)

func newOverviewData(summary core.Summary, posts []core.Post) overviewData {
	data := overviewData{
		Rows:  formatCount(int64(summary.Rows)),
		Empty: summary.Rows == 0,
		KPIs: []kpiCard{
			{Label: "Total Likes", Value: formatCount(summary.Totals.Likes)},
			{Label: "Total Comments", Value: formatCount(summary.Totals.Comments)},
			{Label: "Total Shares", Value: formatCount(summary.Totals.Shares)},
		},
	}

	var maxLikes int64
	for _, g := range summary.LikesByPlatform {
		if g.Likes > maxLikes {
			maxLikes = g.Likes
		}
	}
	for _, g := range summary.LikesByPlatform {
		data.Platforms = append(data.Platforms, barRow{
			Name:  g.Name,
			Value: formatCount(g.Likes),
			Width: barWidth(g.Likes, maxLikes),
		})
	}

	for _, g := range summary.LikesByPostType {
		data.PostTypes = append(data.PostTypes, shareRow{
			Name:    g.Name,
			Likes:   formatCount(g.Likes),
			Percent: formatPercent(g.Share),
			Width:   int(math.Round(g.Share * 100)),
		})
	}

	data.Sentiments = boxRows(summary.LikesBySentiment)

	shown := posts
	if len(shown) > maxRenderedPosts {
		shown = shown[:maxRenderedPosts]
		data.Truncated = true
	}
	data.Shown = formatCount(int64(len(shown)))
	for _, p := range shown {
		data.Posts = append(data.Posts, postRow{
			Platform:  p.Platform,
			PostType:  p.PostType,
			Sentiment: p.Sentiment,
			PostTime:  p.PostTime.Format("2006-01-02 15:04"),
			Likes:     formatCount(p.Likes),
			Comments:  formatCount(p.Comments),
			Shares:    formatCount(p.Shares),
		})
	}
	return data
}

func boxRows(dists []core.Distribution) []boxRow {
	var scale int64
	for _, d := range dists {
		if d.Max > scale {
			scale = d.Max
		}
	}
	pos := func(v float64) float64 {
		if scale <= 0 {
			return 0
		}
		return math.Round(v/float64(scale)*1000) / 10
	}

	rows := make([]boxRow, 0, len(dists))
	for _, d := range dists {
		outliers := make([]string, 0, len(d.Outliers))
		for _, o := range d.Outliers {
			outliers = append(outliers, formatCount(o))
		}
		row := boxRow{
			Name:     d.Name,
			Count:    formatCount(int64(d.Count)),
			Min:      formatCount(d.Min),
			Q1:       formatDecimal(d.Q1, 1),
			Median:   formatDecimal(d.Median, 1),
			Q3:       formatDecimal(d.Q3, 1),
			Max:      formatCount(d.Max),
			Mean:     formatDecimal(d.Mean, 1),
			Outliers: strings.Join(outliers, ", "),

			WhiskerLeft: pos(float64(d.LowerWhisker)),
			BoxLeft:     pos(d.Q1),
			MedianPos:   pos(d.Median),
		}
		row.WhiskerWidth = pos(float64(d.UpperWhisker)) - row.WhiskerLeft
		row.BoxWidth = pos(d.Q3) - row.BoxLeft
		rows = append(rows, row)
	}
	return rows
}

func newFilterGroups(opts core.Options, sel core.Selection) []filterGroup {
	build := func(param, label string, values []string, set core.Set) filterGroup {
		g := filterGroup{Param: param, Label: label}
		for _, v := range values {
			g.Options = append(g.Options, filterOption{Value: v, Selected: set.Has(v)})
		}
		return g
	}
	return []filterGroup{
		build(ParamPlatform, "Platform", opts.Platforms, sel.Platforms),
		build(ParamPostType, "Post Type", opts.PostTypes, sel.PostTypes),
		build(ParamSentiment, "Sentiment", opts.Sentiments, sel.Sentiments),
	}
}
