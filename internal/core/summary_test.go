package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTotals(t *testing.T) {
	view := NewDataset(samplePosts()).View()
	want := Totals{Likes: 43, Comments: 13, Shares: 11}
	if got := view.Totals(); got != want {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}
	if got := (View{}).Totals(); got != (Totals{}) {
		t.Fatalf("empty view totals = %+v", got)
	}
}

func TestLikesByPlatformPartitionsTotal(t *testing.T) {
	ds := NewDataset(samplePosts())
	sels := []Selection{
		ds.Options().Selection(),
		NewSelection([]string{"X", "Z"}, []string{"image", "video", "text"}, []string{"positive"}),
		NewSelection([]string{"Y"}, []string{"video"}, []string{"negative"}),
	}
	for i, sel := range sels {
		view := ds.Filter(sel)
		var sum int64
		for _, g := range view.LikesByPlatform() {
			sum += g.Likes
		}
		if sum != view.Totals().Likes {
			t.Fatalf("case %d: group sum %d != total %d", i, sum, view.Totals().Likes)
		}
	}
}

func TestLikesByPlatformLexicalOrder(t *testing.T) {
	got := NewDataset(samplePosts()).View().LikesByPlatform()
	want := []GroupSum{{Name: "X", Likes: 17}, {Name: "Y", Likes: 26}, {Name: "Z", Likes: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("likes by platform (-want +got):\n%s", diff)
	}
}

func TestLikesByPostTypeShares(t *testing.T) {
	got := NewDataset(samplePosts()).View().LikesByPostType()
	want := []GroupShare{
		{Name: "image", Likes: 31, Share: 31.0 / 43},
		{Name: "text", Likes: 0, Share: 0},
		{Name: "video", Likes: 12, Share: 12.0 / 43},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("likes by post type (-want +got):\n%s", diff)
	}
	var total float64
	for _, g := range got {
		total += g.Share
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("shares sum to %v, want 1", total)
	}
}

func TestLikesByPostTypeZeroLikes(t *testing.T) {
	view := NewDataset([]Post{{Platform: "X", PostType: "image", Sentiment: "s"}}).View()
	got := view.LikesByPostType()
	if len(got) != 1 || got[0].Share != 0 {
		t.Fatalf("expected single zero share, got %+v", got)
	}
}

func TestLikesBySentimentGroups(t *testing.T) {
	got := NewDataset(samplePosts()).View().LikesBySentiment()
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(got))
	}
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	if diff := cmp.Diff([]string{"negative", "neutral", "positive"}, names); diff != "" {
		t.Fatalf("group order (-want +got):\n%s", diff)
	}
	pos := got[2]
	if pos.Count != 3 || pos.Min != 0 || pos.Max != 21 || pos.Median != 10 {
		t.Fatalf("unexpected positive distribution: %+v", pos)
	}
}

func TestSummarize(t *testing.T) {
	view := NewDataset(samplePosts()).View()
	s := Summarize(view)
	if s.Rows != 5 || s.Totals.Likes != 43 {
		t.Fatalf("unexpected summary header: rows=%d totals=%+v", s.Rows, s.Totals)
	}
	if len(s.LikesByPlatform) != 3 || len(s.LikesByPostType) != 3 || len(s.LikesBySentiment) != 3 {
		t.Fatalf("unexpected group counts: %+v", s)
	}
}
