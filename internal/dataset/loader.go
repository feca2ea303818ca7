package dataset

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"engagement/internal/core"
	applog "engagement/internal/log"
)

// Loader owns the process-wide dataset. The first Load reads the source;
// every later call returns the same result without touching the source.
type Loader struct {
	source Source

	once  sync.Once
	ready atomic.Pointer[core.Dataset]
	err   error
}

// NewLoader returns a Loader that reads source on the first Load.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load returns the memoized dataset, reading the source on first use.
// A failed first read is memoized too.
func (l *Loader) Load(ctx context.Context) (*core.Dataset, error) {
	l.once.Do(func() {
		start := time.Now()
		posts, err := l.source.ReadPosts(ctx)
		if err != nil {
			l.err = err
			slog.ErrorContext(ctx, "Dataset load failed",
				applog.FieldComponent, applog.ComponentDataset,
				applog.FieldSource, l.source.Name(),
				applog.FieldError, err)
			return
		}
		data := core.NewDataset(posts)
		l.ready.Store(data)
		slog.InfoContext(ctx, "Dataset loaded",
			applog.FieldComponent, applog.ComponentDataset,
			applog.FieldSource, l.source.Name(),
			applog.FieldRows, data.Len(),
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
	return l.ready.Load(), l.err
}

// Dataset returns the loaded dataset, or nil before a successful Load.
func (l *Loader) Dataset() *core.Dataset {
	return l.ready.Load()
}
