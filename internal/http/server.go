package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"engagement/internal/cache"
	"engagement/internal/core"
	applog "engagement/internal/log"
	"engagement/internal/middleware/ratelimit"
	"engagement/internal/middleware/security"
	"engagement/internal/middleware/trace"
	appweb "engagement/web"
)

// DatasetProvider hands out the loaded dataset, or nil while it is not ready.
type DatasetProvider interface {
	Dataset() *core.Dataset
}

// Options tunes the server's summary cache and API rate limit.
// RateLimitPerMinute applies to /api/ per client IP; 0 disables it.
type Options struct {
	CacheMaxEntries      int
	CacheTTL             time.Duration
	CacheCleanupSchedule string
	RateLimitPerMinute   int
	Logger               *applog.Logger
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		CacheMaxEntries:      100,
		CacheTTL:             5 * time.Minute,
		CacheCleanupSchedule: "@every 10m",
		RateLimitPerMinute:   120,
	}
}

type Server struct {
	http.Server
	templates *template.Template
	datasets  DatasetProvider
	logger    *applog.Logger

	snapshot     atomic.Pointer[snapshot]
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager
	summaries    singleflight.Group

	traceMiddleware *trace.Middleware
	rateLimiter     *ratelimit.Limiter
	clientIP        *security.ClientIPResolver

	summariesComputed int64
	startedAt         time.Time
	shutdownOnce      sync.Once
}

// snapshot pairs a dataset with its filter options, computed once per dataset.
type snapshot struct {
	data    *core.Dataset
	options core.Options
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, datasets DatasetProvider, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates:    t,
		datasets:     datasets,
		logger:       logger,
		summaryCache: cache.NewLRUCache[core.Summary](opts.CacheMaxEntries, opts.CacheTTL),
		cacheManager: cache.NewManager(logger),
		clientIP:     security.NewClientIPResolver(),
		startedAt:    time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.clientIP.ClientIP)

	s.cacheManager.Register(s.summaryCache)
	if opts.CacheCleanupSchedule != "" {
		if err := s.cacheManager.StartCleanup(opts.CacheCleanupSchedule); err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	api := func(h http.HandlerFunc) http.Handler { return getOnly(h) }
	if opts.RateLimitPerMinute > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		limit := s.rateLimiter.Middleware(s.clientIP.ClientIP)
		api = func(h http.HandlerFunc) http.Handler { return limit(getOnly(h)) }
	}

	mux.HandleFunc("/", getOnly(s.handleIndex))
	mux.HandleFunc("/ui/overview", getOnly(s.handleOverview))
	mux.Handle("/api/options", api(s.handleOptions))
	mux.Handle("/api/summary", api(s.handleSummary))
	mux.Handle("/api/posts", api(s.handlePosts))
	mux.HandleFunc("/healthz", getOnly(s.handleHealth))
	mux.HandleFunc("/readyz", getOnly(s.handleReady))
	mux.HandleFunc("/metrics", getOnly(s.handleMetrics))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.traceMiddleware.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop(ctx)
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// current returns the loaded dataset with its options, or false before load.
func (s *Server) current() (*snapshot, bool) {
	data := s.datasets.Dataset()
	if data == nil {
		return nil, false
	}
	if snap := s.snapshot.Load(); snap != nil && snap.data == data {
		return snap, true
	}
	snap := &snapshot{data: data, options: data.Options()}
	s.snapshot.Store(snap)
	return snap, true
}

// summary returns the aggregates for sel, computing each distinct selection
// at most once per cache lifetime even under concurrent requests.
func (s *Server) summary(ctx context.Context, snap *snapshot, sel core.Selection) core.Summary {
	key := sel.Key()
	if cached, ok := s.summaryCache.Get(key); ok {
		applog.FromContext(ctx).DebugContext(ctx, "Summary cache hit", applog.FieldCacheHit, true)
		return cached
	}

	v, _, _ := s.summaries.Do(key, func() (any, error) {
		start := time.Now()
		summary := core.Summarize(snap.data.Filter(sel))
		s.summaryCache.Set(key, summary)
		atomic.AddInt64(&s.summariesComputed, 1)
		applog.FromContext(ctx).DebugContext(ctx, "Summary computed",
			applog.FieldOperation, applog.OpAggregate,
			applog.FieldCacheHit, false,
			applog.FieldRows, summary.Rows,
			applog.FieldDuration, time.Since(start).Milliseconds())
		return summary, nil
	})
	return v.(core.Summary)
}
