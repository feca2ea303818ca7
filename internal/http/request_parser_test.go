package http

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"engagement/internal/core"
)

var testOptions = core.Options{
	Platforms:  []string{"X", "Y"},
	PostTypes:  []string{"video", "image"},
	Sentiments: []string{"positive", "negative"},
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.Selection
	}{
		{
			name:  "no parameters selects all options",
			query: "",
			want:  testOptions.Selection(),
		},
		{
			name:  "one parameter narrows only its column",
			query: "platform=X",
			want:  core.NewSelection([]string{"X"}, testOptions.PostTypes, testOptions.Sentiments),
		},
		{
			name:  "present but empty selects nothing",
			query: "post_type=",
			want:  core.NewSelection(testOptions.Platforms, nil, testOptions.Sentiments),
		},
		{
			name:  "hidden blank plus chosen values",
			query: "sentiment=&sentiment=negative",
			want:  core.NewSelection(testOptions.Platforms, testOptions.PostTypes, []string{"negative"}),
		},
		{
			name:  "values are trimmed and deduplicated",
			query: "platform=+Y+&platform=Y",
			want:  core.NewSelection([]string{"Y"}, testOptions.PostTypes, testOptions.Sentiments),
		},
		{
			name:  "unknown values are kept and match nothing",
			query: "platform=Z",
			want:  core.NewSelection([]string{"Z"}, testOptions.PostTypes, testOptions.Sentiments),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ParseSelection(query, testOptions)
			if err != nil {
				t.Fatalf("ParseSelection() error = %v", err)
			}
			if got.Key() != tt.want.Key() {
				t.Errorf("ParseSelection() = %q, want %q", got.Key(), tt.want.Key())
			}
		})
	}
}

func TestParseSelectionLimits(t *testing.T) {
	tooMany := url.Values{ParamPlatform: make([]string, maxSelectionValues+1)}
	if _, err := ParseSelection(tooMany, testOptions); err == nil {
		t.Error("expected an error for too many values")
	}

	tooLong := url.Values{ParamSentiment: {strings.Repeat("a", maxValueLength+1)}}
	if _, err := ParseSelection(tooLong, testOptions); err == nil {
		t.Error("expected an error for an oversized value")
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    Page
		wantErr bool
	}{
		{query: "", want: Page{Offset: 0, Limit: defaultPageLimit}},
		{query: "limit=10&offset=20", want: Page{Offset: 20, Limit: 10}},
		{query: "limit=1000", want: Page{Limit: 1000}},
		{query: "limit=1001", wantErr: true},
		{query: "limit=0", wantErr: true},
		{query: "offset=-3", wantErr: true},
		{query: "offset=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			query, _ := url.ParseQuery(tt.query)
			got, err := ParsePage(query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageApply(t *testing.T) {
	posts := samplePosts()

	if got := (Page{Offset: 10, Limit: 5}).Apply(posts); len(got) != 0 {
		t.Errorf("offset past the end returned %d posts", len(got))
	}
	if diff := cmp.Diff(posts[3:], (Page{Offset: 3, Limit: 5}).Apply(posts)); diff != "" {
		t.Errorf("tail page (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(posts[:2], (Page{Limit: 2}).Apply(posts)); diff != "" {
		t.Errorf("first page (-want +got):\n%s", diff)
	}
}

func TestSelectionQueryRoundTrip(t *testing.T) {
	sel := core.NewSelection([]string{"Y", "X"}, nil, []string{"negative"})

	query := SelectionQuery(sel)
	if got := query[ParamPostType]; len(got) != 1 || got[0] != "" {
		t.Errorf("empty set should encode as a blank value, got %q", got)
	}

	back, err := ParseSelection(query, testOptions)
	if err != nil {
		t.Fatalf("ParseSelection() error = %v", err)
	}
	if back.Key() != sel.Key() {
		t.Errorf("round trip = %q, want %q", back.Key(), sel.Key())
	}
}
