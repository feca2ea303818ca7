package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"

	"engagement/internal/core"
)

type countingSource struct {
	mu    sync.Mutex
	reads int
	posts []core.Post
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) ReadPosts(context.Context) ([]core.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.posts, s.err
}

func TestLoaderMemoizes(t *testing.T) {
	src := &countingSource{posts: []core.Post{{Platform: "X", PostType: "image", Sentiment: "positive", Likes: 1}}}
	l := NewLoader(src)
	if l.Dataset() != nil {
		t.Fatalf("dataset should be nil before Load")
	}

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := l.Load(context.Background())
			if err != nil || ds != first {
				t.Errorf("expected same dataset instance, got %p (err=%v)", ds, err)
			}
		}()
	}
	wg.Wait()

	if src.reads != 1 {
		t.Fatalf("source read %d times, want 1", src.reads)
	}
	if l.Dataset() != first || first.Len() != 1 {
		t.Fatalf("unexpected dataset after load")
	}
}

func TestLoaderMemoizesFailure(t *testing.T) {
	src := &countingSource{err: &core.LoadError{Source: "counting", Err: core.ErrSourceMissing}}
	l := NewLoader(src)
	for i := 0; i < 2; i++ {
		ds, err := l.Load(context.Background())
		if ds != nil || !errors.Is(err, core.ErrSourceMissing) {
			t.Fatalf("attempt %d: expected ErrSourceMissing, got ds=%v err=%v", i, ds, err)
		}
	}
	if src.reads != 1 {
		t.Fatalf("source read %d times, want 1", src.reads)
	}
	if l.Dataset() != nil {
		t.Fatalf("dataset should stay nil after a failed load")
	}
}
