package cache

import (
	"context"
	"io"
	"testing"
	"time"

	applog "engagement/internal/log"
)

type countingCleaner struct{ calls int }

func (c *countingCleaner) CleanExpired() int {
	c.calls++
	return 1
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestManager_CleanAll(t *testing.T) {
	m := NewManager(quietLogger())
	a, b := &countingCleaner{}, &countingCleaner{}
	m.Register(a)
	m.Register(b)

	if got := m.CleanAll(); got != 2 {
		t.Errorf("CleanAll() = %d, want 2", got)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", a.calls, b.calls)
	}
}

func TestManager_StartCleanup(t *testing.T) {
	m := NewManager(quietLogger())
	m.Register(NewLRUCache[string](1, time.Minute))

	if err := m.StartCleanup("not a schedule"); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
	if err := m.StartCleanup("@every 1h"); err != nil {
		t.Fatalf("StartCleanup() error = %v", err)
	}
	if err := m.StartCleanup("@every 1h"); err == nil {
		t.Error("second StartCleanup should fail")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
	m.Stop(ctx)
}
