package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"engagement/internal/core"
	applog "engagement/internal/log"
)

type staticProvider struct{ data *core.Dataset }

func (p staticProvider) Dataset() *core.Dataset { return p.data }

func samplePosts() []core.Post {
	at := func(day int) time.Time { return time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC) }
	return []core.Post{
		{Platform: "X", PostType: "video", Sentiment: "positive", PostTime: at(1), Likes: 100, Comments: 10, Shares: 5},
		{Platform: "Y", PostType: "image", Sentiment: "negative", PostTime: at(2), Likes: 50, Comments: 5, Shares: 1},
		{Platform: "X", PostType: "image", Sentiment: "neutral", PostTime: at(3), Likes: 1200, Comments: 30, Shares: 12},
		{Platform: "Y", PostType: "video", Sentiment: "positive", PostTime: at(4), Likes: 3000, Comments: 40, Shares: 9},
	}
}

func newTestServer(t *testing.T, provider DatasetProvider, mutate func(*Options)) *Server {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = applog.New(applog.Config{Output: io.Discard})
	opts.RateLimitPerMinute = 0
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := NewServer(":0", provider, opts)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func loadedServer(t *testing.T) *Server {
	return newTestServer(t, staticProvider{data: core.NewDataset(samplePosts())}, nil)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func TestIndexAndHealth(t *testing.T) {
	srv := loadedServer(t)

	rr := get(t, srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Social Media Engagement Analysis",
		"Total Likes",
		"4,350",
		`<option value="X" selected>`,
		`name="sentiment" value=""`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("security headers not applied")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id header not set")
	}

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		if rr := get(t, srv, path); rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
	}

	if rr := get(t, srv, "/does-not-exist"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv := loadedServer(t)
	for _, path := range []string{"/static/app.css", "/static/app.js"} {
		rr := get(t, srv, path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
		if rr.Header().Get("Cache-Control") == "" {
			t.Errorf("%s missing Cache-Control", path)
		}
	}
}

func TestNotReady(t *testing.T) {
	srv := newTestServer(t, staticProvider{}, nil)

	for _, path := range []string{"/readyz", "/api/summary", "/api/options", "/api/posts", "/", "/ui/overview"} {
		if rr := get(t, srv, path); rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rr.Code)
		}
	}
	if rr := get(t, srv, "/healthz"); rr.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := loadedServer(t)

	for _, path := range []string{"/", "/ui/overview", "/api/summary", "/api/posts", "/api/options"} {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, rr.Code)
		}
		if got := rr.Header().Get("Allow"); got != http.MethodGet {
			t.Errorf("POST %s Allow = %q, want GET", path, got)
		}
	}
}

func TestOptionsAPI(t *testing.T) {
	rr := get(t, loadedServer(t), "/api/options")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[core.Options](t, rr)
	want := core.Options{
		Platforms:  []string{"X", "Y"},
		PostTypes:  []string{"video", "image"},
		Sentiments: []string{"positive", "negative", "neutral"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryAPI(t *testing.T) {
	srv := loadedServer(t)

	t.Run("absent parameters select everything", func(t *testing.T) {
		got := decode[summaryResponse](t, get(t, srv, "/api/summary"))
		if got.Summary.Rows != 4 {
			t.Errorf("rows = %d, want 4", got.Summary.Rows)
		}
		want := core.Totals{Likes: 4350, Comments: 85, Shares: 27}
		if got.Summary.Totals != want {
			t.Errorf("totals = %+v, want %+v", got.Summary.Totals, want)
		}
	})

	t.Run("single platform", func(t *testing.T) {
		got := decode[summaryResponse](t, get(t, srv, "/api/summary?platform=X"))
		want := core.Totals{Likes: 1300, Comments: 40, Shares: 17}
		if got.Summary.Totals != want {
			t.Errorf("totals = %+v, want %+v", got.Summary.Totals, want)
		}
		if diff := cmp.Diff([]core.GroupSum{{Name: "X", Likes: 1300}}, got.Summary.LikesByPlatform); diff != "" {
			t.Errorf("likes by platform (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"X"}, got.Selection.Platforms); diff != "" {
			t.Errorf("selection echo (-want +got):\n%s", diff)
		}
	})

	t.Run("present but empty parameter selects nothing", func(t *testing.T) {
		got := decode[summaryResponse](t, get(t, srv, "/api/summary?sentiment="))
		if got.Summary.Rows != 0 || got.Summary.Totals != (core.Totals{}) {
			t.Errorf("summary = %+v, want empty", got.Summary)
		}
		if len(got.Summary.LikesByPlatform) != 0 || len(got.Summary.LikesByPostType) != 0 || len(got.Summary.LikesBySentiment) != 0 {
			t.Errorf("grouped tables should be empty: %+v", got.Summary)
		}
	})

	t.Run("repeated parameters combine", func(t *testing.T) {
		got := decode[summaryResponse](t, get(t, srv, "/api/summary?post_type=video&post_type=image&sentiment=positive"))
		if got.Summary.Rows != 2 || got.Summary.Totals.Likes != 3100 {
			t.Errorf("summary = %+v, want 2 rows and 3100 likes", got.Summary)
		}
	})
}

func TestSummaryIsCached(t *testing.T) {
	srv := loadedServer(t)

	for i := 0; i < 3; i++ {
		if rr := get(t, srv, "/api/summary?platform=Y&platform=X"); rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
	}
	get(t, srv, "/api/summary?platform=X&platform=Y")

	if srv.summariesComputed != 1 {
		t.Errorf("summaries computed = %d, want 1", srv.summariesComputed)
	}
	if stats := srv.summaryCache.Stats(); stats.Hits != 3 {
		t.Errorf("cache hits = %d, want 3", stats.Hits)
	}
}

func TestPostsAPI(t *testing.T) {
	srv := loadedServer(t)

	got := decode[postsResponse](t, get(t, srv, "/api/posts?platform=X&limit=1&offset=1"))
	if got.Total != 2 || got.Limit != 1 || got.Offset != 1 {
		t.Errorf("paging = total %d limit %d offset %d", got.Total, got.Limit, got.Offset)
	}
	if diff := cmp.Diff([]core.Post{samplePosts()[2]}, got.Posts); diff != "" {
		t.Errorf("posts (-want +got):\n%s", diff)
	}

	for _, target := range []string{"/api/posts?limit=0", "/api/posts?offset=-1", "/api/posts?limit=abc"} {
		rr := get(t, srv, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rr.Code)
		}
		if msg := decode[errorResponse](t, rr); msg.Error == "" {
			t.Errorf("%s missing error message", target)
		}
	}
}

func TestOverviewPartial(t *testing.T) {
	srv := loadedServer(t)

	rr := get(t, srv, "/ui/overview?platform=Y")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="overview"`) || strings.Contains(body, "<html") {
		t.Errorf("partial should render only the overview section:\n%s", body)
	}
	if !strings.Contains(body, "3,050") {
		t.Errorf("partial missing Y likes total:\n%s", body)
	}
	if !strings.Contains(body, `href="/api/posts?platform=Y&amp;post_type=image&amp;post_type=video`) {
		t.Errorf("partial missing export link for the current selection:\n%s", body)
	}

	empty := get(t, srv, "/ui/overview?platform=").Body.String()
	if !strings.Contains(empty, "No posts match the current filters.") {
		t.Errorf("empty selection should render the placeholder:\n%s", empty)
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	srv := newTestServer(t, staticProvider{data: core.NewDataset(samplePosts())}, func(o *Options) {
		o.RateLimitPerMinute = 1
	})

	if rr := get(t, srv, "/api/options"); rr.Code != http.StatusOK {
		t.Fatalf("first status = %d", rr.Code)
	}
	if rr := get(t, srv, "/api/options"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rr.Code)
	}
	if rr := get(t, srv, "/"); rr.Code != http.StatusOK {
		t.Errorf("page status = %d, want 200", rr.Code)
	}
}
