package http

import (
	"bytes"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "engagement/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports ready once the dataset is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{"templates": "ok"}
	status, httpStatus := "ready", http.StatusOK

	if snap, ok := s.current(); ok {
		checks["dataset"] = map[string]any{"status": "ok", "rows": snap.data.Len()}
	} else {
		checks["dataset"] = "not_loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	checks["cache"] = s.summaryCache.Stats()

	writeJSON(w, r, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	cacheStats := s.summaryCache.Stats()
	rows := 0
	if snap, ok := s.current(); ok {
		rows = snap.data.Len()
	}

	metric := func(name, help, kind string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "Responses with a 5xx status", "counter", traceMetrics.ServerErrors)
	metric("http_response_time_microseconds", "Smoothed response time", "gauge", traceMetrics.AverageResponseTime)
	metric("dataset_rows", "Rows in the loaded dataset", "gauge", rows)
	metric("summaries_computed_total", "Summaries computed from the dataset", "counter", atomic.LoadInt64(&s.summariesComputed))
	metric("summary_cache_hits_total", "Summary cache hits", "counter", cacheStats.Hits)
	metric("summary_cache_misses_total", "Summary cache misses", "counter", cacheStats.Misses)
	metric("summary_cache_entries", "Current summary cache entries", "gauge", cacheStats.Size)
	if s.rateLimiter != nil {
		rl := s.rateLimiter.GetMetrics()
		metric("rate_limit_rejected_total", "Requests rejected by the rate limiter", "counter", rl.Rejected)
		metric("rate_limit_clients", "Clients tracked by the rate limiter", "gauge", rl.ClientCount)
	}
	metric("uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.startedAt).Seconds()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "dashboard.html", true)
}

// handleOverview renders the overview partial for the current query.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "overview", false)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, page bool) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	snap, ok := s.current()
	if !ok {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}
	sel, err := ParseSelection(r.URL.Query(), snap.options)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := s.summary(ctx, snap, sel)
	overview := newOverviewData(summary, snap.data.Filter(sel).Posts())
	overview.ExportURL = "/api/posts?" + SelectionQuery(sel).Encode()

	var data any = overview
	if page {
		data = dashboardData{
			Filters:  newFilterGroups(snap.options, sel),
			Overview: overview,
		}
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithSelection(sel))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	fields := applog.NewFields().WithSelection(sel)
	fields[applog.FieldRows] = summary.Rows
	logger.DebugContext(ctx, "Dashboard rendered", fields.ToSlice()...)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
