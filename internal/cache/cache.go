package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	applog "engagement/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager runs expiry sweeps over every registered cache on a cron schedule.
type Manager struct {
	mu      sync.Mutex
	caches  []Cleaner
	cron    *cron.Cron
	logger  *applog.Logger
	started bool
}

// NewManager creates a new cache manager
func NewManager(logger *applog.Logger) *Manager {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Manager{
		logger: logger.WithComponent(applog.ComponentCache),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// CleanAll sweeps every registered cache once and returns the number of
// entries removed.
func (m *Manager) CleanAll() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// StartCleanup schedules CleanAll with a standard cron expression or a
// descriptor such as "@every 10m".
func (m *Manager) StartCleanup(schedule string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("cache cleanup already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if removed := m.CleanAll(); removed > 0 {
			m.logger.Debug("Expired cache entries removed", applog.FieldRows, removed)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cache cleanup %q: %w", schedule, err)
	}

	c.Start()
	m.cron = c
	m.started = true
	m.logger.Info("Cache cleanup scheduled", "schedule", schedule)
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.started = false
	m.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
